// Package server exposes the analytics engine over a JSON HTTP API for the
// dashboard rendering layer.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bankstacx/bankstacx/internal/dataset"
	"github.com/bankstacx/bankstacx/internal/report"
	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/constants"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Logger     *zap.Logger
	Config     *Config
	Benchmarks stress.Benchmarks
	Version    string

	// Dataset is the initially loaded dataset. May be nil when the data file
	// is absent; the upload endpoint supplies it later.
	Dataset *dataset.Dataset
}

// Server is the HTTP server. The dataset sits behind a RWMutex only because
// an upload can swap it; computation never mutates records.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	logger  *zap.Logger
	cfg     *Config
	builder *report.Builder
	version string

	mu      sync.RWMutex
	dataset *dataset.Dataset
}

// New creates the HTTP server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.uploadSizeBytes == 0 {
		if err := cfg.normalize(); err != nil {
			cfg.SetUploadSizeBytes(constants.DefaultMaxUploadSizeBytes)
		}
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	s := &Server{
		router:  chi.NewRouter(),
		logger:  logger,
		cfg:     cfg,
		builder: report.NewBuilder(logger, nil, opts.Benchmarks),
		version: version,
		dataset: opts.Dataset,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/banks", s.handleBanks)
		r.Get("/ratios", s.handleRatioCatalog)
		r.Get("/analysis", s.handleAnalysis)
		r.Get("/stress", s.handleStress)
		r.Get("/financials", s.handleFinancials)
		r.Get("/summary", s.handleSummary)
		r.Get("/report", s.handleReport)
		r.Post("/upload", s.handleUpload)
		r.Get("/version", s.handleVersion)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("op", "server.request"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestId", middleware.GetReqID(r.Context())),
		)
	})
}

// Start begins listening; it blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.String("op", "server.Start"),
		zap.String("address", s.cfg.Address),
	)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the underlying router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// currentDataset returns the active dataset, or nil when none is loaded yet.
func (s *Server) currentDataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// swapDataset replaces the active dataset after a successful upload.
func (s *Server) swapDataset(d *dataset.Dataset) {
	s.mu.Lock()
	s.dataset = d
	s.mu.Unlock()
}
