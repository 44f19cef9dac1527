package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler/dto"
)

const (
	ServiceName    = "Customer.API"
	ServiceVersion = "1.0.0"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
	now    func() time.Time
}

func NewHealthHandler(store Pinger, l *slog.Logger) *HealthHandler {
	if store == nil {
		panic("health store cannot be nil")
	}
	return &HealthHandler{
		store:  store,
		logger: l.With("component", "HealthHandler"),
		now:    time.Now,
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()
	respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "Healthy",
		Service:   ServiceName,
		Timestamp: &now,
		Version:   ServiceVersion,
	})
}

// Live handles GET /api/health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "Alive"})
}

// Ready handles GET /api/health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Readiness check failed", slog.Any("error", err))
		respondJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "NotReady"})
		return
	}
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "Ready"})
}

// Probe handles GET /health with a plain-text status.
func (h *HealthHandler) Probe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Health probe failed", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Unhealthy"))
		return
	}
	_, _ = w.Write([]byte("Healthy"))
}
