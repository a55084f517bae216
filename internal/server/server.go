// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: New opens the catalog database and
// the saved-tools store, builds the services on top of them and mounts the
// handlers. main.go only loads config and calls Start.
//
//	sqlite.DB ──► ToolService ──► BrowseService ─┐
//	                   │                         ├──► ToolHandler
//	boltkv ──► savedset.Store ──► SavedService ──┴──► SavedHandler
package server

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sakif/toolscope/internal/handler"
	"github.com/sakif/toolscope/internal/metrics"
	"github.com/sakif/toolscope/internal/middleware"
	sqliteRepo "github.com/sakif/toolscope/internal/repository/sqlite"
	"github.com/sakif/toolscope/internal/savedset"
	"github.com/sakif/toolscope/internal/service"
	"github.com/sakif/toolscope/internal/storage/boltkv"
)

// Config holds server configuration.
type Config struct {
	Port        int
	CatalogPath string // SQLite file, or ":memory:"
	SavedPath   string // bbolt file holding the saved-tools set
}

// Server represents the HTTP server and all its dependencies.
//
// It owns two files: the catalog database and the saved-tools store. Both are
// closed by Close, which Start calls on the way out.
type Server struct {
	router  *chi.Mux
	config  Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	kv      *boltkv.Store
	metrics *metrics.Metrics
}

// New opens both stores and wires every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	kv, err := boltkv.Open(cfg.SavedPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening saved store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		kv:      kv,
		metrics: metrics.New(registry),
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
// GET    /healthz                         → liveness + catalog ping
// GET    /metrics                         → Prometheus scrape
// GET    /api/tools                       → filtered directory
// POST   /api/tools                       → submit a tool
// GET    /api/tools/{id}                  → tool + related + saved flag
// PUT    /api/tools/{id}                  → resubmit a tool
// DELETE /api/tools/{id}                  → remove a tool
// GET    /api/tags                        → every tag, sorted
// GET    /api/categories                  → categories with live counts
// GET    /api/categories/{name}/tools     → tools in one category
// GET    /api/saved                       → saved tools
// DELETE /api/saved                       → clear saved tools
// GET    /api/saved/export                → saved tools as a JSON download
// POST   /api/saved/{id}/toggle           → save / unsave
//
// Middleware order: RequestID, RealIP, Logger, Metrics, Recoverer.
// Recoverer sits innermost so a panic still gets logged and counted as a 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	saved := savedset.New(s.kv, s.logger)

	toolService := service.NewToolService(s.db, service.NewValidator(), s.logger)
	browseService := service.NewBrowseService(toolService, saved, s.metrics, s.logger)
	savedService := service.NewSavedService(toolService, saved, s.metrics, s.logger)

	toolHandler := handler.NewToolHandler(toolService, browseService, savedService, s.logger)
	savedHandler := handler.NewSavedHandler(savedService, s.logger)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tools", toolHandler.HandleList)
		r.Post("/tools", toolHandler.HandleCreate)
		r.Get("/tools/{id}", toolHandler.HandleGetByID)
		r.Put("/tools/{id}", toolHandler.HandleUpdate)
		r.Delete("/tools/{id}", toolHandler.HandleDelete)

		r.Get("/tags", toolHandler.HandleTags)
		r.Get("/categories", toolHandler.HandleCategories)
		r.Get("/categories/{name}/tools", toolHandler.HandleCategoryTools)

		r.Get("/saved", savedHandler.HandleList)
		r.Delete("/saved", savedHandler.HandleClear)
		r.Get("/saved/export", savedHandler.HandleExport)
		r.Post("/saved/{id}/toggle", savedHandler.HandleToggle)
	})
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.Ping(); err != nil {
		s.logger.Warn("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Close releases both stores. It is safe to call more than once.
func (s *Server) Close() error {
	return errors.Join(s.kv.Close(), s.db.Close())
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting connections
//  2. wait up to 30s for in-flight requests
//  3. close the catalog database and the saved store
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("catalog", s.config.CatalogPath),
			slog.String("saved", s.config.SavedPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
