package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/worker"
)

// ProviderInfo names the inference backend reported by the health check
type ProviderInfo interface {
	Name() string
	Model() string
}

// Server is the HTTP surface of the fact-check service
type Server struct {
	router    *chi.Mux
	processor *worker.BatchProcessor
	provider  ProviderInfo
	config    *model.Config
	logger    *zap.Logger
}

// NewServer builds the router. cfg supplies server and rate-limit settings.
func NewServer(cfg *model.Config, processor *worker.BatchProcessor, provider ProviderInfo, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:    chi.NewRouter(),
		processor: processor,
		provider:  provider,
		config:    cfg,
		logger:    logger.Named("api"),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	if s.config.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if rl := s.config.RateLimit; rl.Enabled {
				r.Use(rateLimit(worker.NewWindowLimiter(rl.Max, rl.Window)))
			}
			r.Post("/fact-check", s.handleFactCheck)
			r.Post("/fact-check-bulk", s.handleFactCheckBulk)
			r.Post("/fact-check-file", s.handleFactCheckFile)
		})
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on the configured port and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if n := s.config.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("fact-checking API server running",
		zap.String("addr", ln.Addr().String()),
		zap.String("provider", s.provider.Name()),
		zap.String("model", s.provider.Model()),
		zap.String("endpoints", strings.Join([]string{
			"POST /api/fact-check",
			"POST /api/fact-check-bulk",
			"POST /api/fact-check-file",
			"GET /api/health",
		}, ", ")),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
