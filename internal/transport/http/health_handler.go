package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"indicators/internal/config"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the /healthz body
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler handles health checks
type HealthHandler struct {
	db      Pinger
	logger  *slog.Logger
	timeout time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		logger:  logger.With(slog.String("handler", "health")),
		timeout: 2 * time.Second,
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Version:   config.AppVersion,
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "health_check_failed", slog.String("error", err.Error()))
		status.Status = "degraded"
		status.Database = err.Error()
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}
