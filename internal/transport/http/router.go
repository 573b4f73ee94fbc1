package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"indicators/internal/config"
	apierrors "indicators/internal/errors"
	"indicators/internal/middleware"
)

// Store is what the query service reads from
type Store interface {
	SeriesReader
	Pinger
}

// RouterDeps are the collaborators of the query service router
type RouterDeps struct {
	Store     Store
	Logger    *slog.Logger
	RateLimit config.RateLimitConfig
	// Metrics serves /metrics; the route is absent when nil.
	Metrics http.Handler
	// OTel instruments every request when set.
	OTel *middleware.OTelMiddleware
}

// NewRouter builds the query service routes and middleware chain
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if deps.OTel != nil {
		r.Use(deps.OTel.Handler)
	}
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(errorHandler))
	r.Use(middleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(deps.Store, logger)
	r.Get("/healthz", health.HealthCheck)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	rates := NewExchangeRateHandler(deps.Store, logger, errorHandler)
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if deps.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(deps.RateLimit.RPS, deps.RateLimit.Burst, errorHandler, logger).Handler)
		}
		r.Get("/api/exchange-rate", rates.GetRecent)
		r.Get("/get_exchange_rate_data", rates.GetRecent)
	})

	return r
}
