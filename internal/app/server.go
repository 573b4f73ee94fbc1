package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"indicators/internal/config"
	"indicators/internal/middleware"
	"indicators/internal/store"
	transporthttp "indicators/internal/transport/http"
)

// Server is the read-only query service
type Server struct {
	rt     *Runtime
	store  *store.Store
	server *http.Server
}

// NewServer opens the store and builds the HTTP server for the query service
func NewServer(rt *Runtime) (*Server, error) {
	st, err := store.Open(rt.Config.Database, rt.Logger)
	if err != nil {
		return nil, err
	}

	deps := transporthttp.RouterDeps{
		Store:     st,
		Logger:    rt.Logger,
		RateLimit: rt.Config.Server.RateLimit,
	}
	if rt.Telemetry != nil {
		deps.Metrics = rt.Telemetry.MetricsHandler
		otel, err := middleware.NewOTelMiddleware(rt.Telemetry.TracerProvider, rt.Telemetry.MeterProvider)
		if err != nil {
			return nil, errors.Join(err, st.Close())
		}
		deps.OTel = otel
	}

	return &Server{
		rt:     rt,
		store:  st,
		server: newHTTPServer(rt.Config.Server, transporthttp.NewRouter(deps), rt.Logger),
	}, nil
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}

// Handler returns the root handler of the service
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run listens on the configured port until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down within the configured shutdown timeout and closes the store.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.rt.Logger
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server_started", slog.String("addr", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.rt.Config.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("server_stopping")
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if cerr := s.store.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	logger.Info("server_stopped")
	return err
}
