package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler"
	mw "github.com/paddyrails/mortgage-customer-service/internal/api/middleware"
	"github.com/paddyrails/mortgage-customer-service/internal/config"
	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
)

const requestTimeout = 60 * time.Second

// SetupRouter wires every route. The returned func stops background work
// started for the router and must be called on shutdown.
func SetupRouter(customerService customer.CustomerService, store handler.Pinger, cfg *config.Config, logger *slog.Logger) (*chi.Mux, func()) {
	router := chi.NewRouter()

	limiter := mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger)
	setupMiddleware(router, limiter, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupHealthRoutes(router, store, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, logger)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Route not found","data":null,"errors":null}`))
	})

	return router, limiter.Stop
}

func setupMiddleware(router *chi.Mux, limiter *mw.RateLimiterMiddleware, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(limiter.Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupHealthRoutes(router *chi.Mux, store handler.Pinger, logger *slog.Logger) {
	h := handler.NewHealthHandler(store, logger)

	router.Get("/health", h.Probe)
	router.Route("/api/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.Live)
		r.Get("/ready", h.Ready)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	if !cfg.Server.Auth.Enabled {
		logger.Info("Bearer auth disabled, token endpoint not mounted")
		return
	}
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/api/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/email/{email}", h.GetCustomerByEmail)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
			r.Get("/credit", h.GetCreditHistory)
			r.Put("/credit", h.UpdateCreditHistory)
			r.Get("/employments", h.ListEmployments)
			r.Post("/employments", h.AddEmployment)
		})
	})
}
