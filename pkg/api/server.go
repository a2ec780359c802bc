package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bibnet/pkg/pipeline"
	"github.com/matzehuels/bibnet/pkg/store"
)

const (
	// DefaultMaxBody bounds the size of a submitted analysis request.
	DefaultMaxBody = 64 << 20

	// DefaultMaxSamples caps the samples per null distribution a request
	// may ask for.
	DefaultMaxSamples = 10000

	// DefaultRequestTimeout bounds one analysis run.
	DefaultRequestTimeout = 10 * time.Minute

	shutdownTimeout = 30 * time.Second
)

// Config configures a [Server].
type Config struct {
	Store  store.Store
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults are the analysis options requests start from.
	Defaults pipeline.Options

	MaxBody        int64
	MaxSamples     int
	RequestTimeout time.Duration
}

// Server is the HTTP front end for a report store.
type Server struct {
	store    store.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options

	maxBody    int64
	maxSamples int
	timeout    time.Duration
}

// New creates a server. Zero limits select the package defaults, a nil
// runner a cache-less one and a nil logger discards output.
func New(cfg Config) *Server {
	s := &Server{
		store:      cfg.Store,
		runner:     cfg.Runner,
		logger:     cfg.Logger,
		defaults:   cfg.Defaults,
		maxBody:    cfg.MaxBody,
		maxSamples: cfg.MaxSamples,
		timeout:    cfg.RequestTimeout,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}
	if s.maxSamples <= 0 {
		s.maxSamples = DefaultMaxSamples
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	return s
}

// Handler returns the routed handler with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports", s.listReports)
		r.Get("/reports/{id}", s.getReport)
		r.Delete("/reports/{id}", s.deleteReport)
		r.Post("/analyses", s.analyze)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
