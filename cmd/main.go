package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/viper"

	"github.com/paddyrails/mortgage-customer-service/internal/api"
	"github.com/paddyrails/mortgage-customer-service/internal/api/handler"
	"github.com/paddyrails/mortgage-customer-service/internal/config"
	"github.com/paddyrails/mortgage-customer-service/internal/domain/customer"
	"github.com/paddyrails/mortgage-customer-service/internal/event"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/database/memory"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/database/postgres"
	"github.com/paddyrails/mortgage-customer-service/internal/infrastructure/logging"
)

// store is what the service and the readiness probe need from a backend.
type store interface {
	customer.Repository
	handler.Pinger
}

func main() {
	cfg, logger := initializeApp()

	repo, closeStore, err := initializeStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize customer store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	publisher, closePublisher := initializePublisher(context.Background(), cfg, logger)
	defer closePublisher()

	customerService := customer.NewCustomerService(repo, publisher, logger)
	router, stopRouter := api.SetupRouter(customerService, repo, cfg, logger)
	defer stopRouter()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "driver", cfg.Database.Driver)

	return cfg, logger
}

func initializeStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store, func(), error) {
	seed := customer.SeedProfiles(time.Now().UTC())

	switch cfg.Database.Driver {
	case "", config.DriverMemory:
		logger.Info("Initializing in-memory customer store...")
		s, err := memory.NewCustomerStore(logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Seed {
			if err := s.Seed(ctx, seed); err != nil {
				return nil, nil, fmt.Errorf("seeding in-memory store: %w", err)
			}
		}
		return s, func() {}, nil

	case config.DriverPostgres:
		logger.Info("Initializing database connection pool...")
		pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		closePool := func() {
			logger.Info("Closing database connection pool...")
			pool.Close()
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			closePool()
			return nil, nil, fmt.Errorf("applying schema: %w", err)
		}
		repo := postgres.NewCustomerRepository(pool, logger)
		if cfg.Database.Seed {
			if err := repo.Seed(ctx, seed); err != nil {
				closePool()
				return nil, nil, fmt.Errorf("seeding database: %w", err)
			}
		}
		return repo, closePool, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// initializePublisher falls back to dropping events when the broker is
// disabled or unreachable; customer writes never depend on it.
func initializePublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (event.EventPublisher, func()) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, customer events will not be published")
		return event.NopPublisher{}, func() {}
	}

	conn, err := event.DialRabbitMQ(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ConnectTimeout, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, continuing without events", "error", err)
		return event.NopPublisher{}, func() {}
	}

	pub, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ publisher, continuing without events", "error", err)
		closeConnection(conn, logger)
		return event.NopPublisher{}, func() {}
	}

	return pub, func() { closeConnection(conn, logger) }
}

func closeConnection(conn *amqp.Connection, logger *slog.Logger) {
	logger.Info("Closing RabbitMQ connection...")
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		logger.Warn("Failed to close RabbitMQ connection", "error", err)
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}
