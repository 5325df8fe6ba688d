// Package server exposes the recommendation pipeline over HTTP: a chat
// endpoint for the storefront widget (plain POST and websocket) and
// read-only learning statistics.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daeunko/curator/internal/curator"
	"github.com/daeunko/curator/internal/learning"
)

// Config holds server configuration.
type Config struct {
	Listen   string
	AllowAll bool // allow all CORS origins (dev mode)
}

// Answerer is the slice of the curator the server needs.
type Answerer interface {
	Answer(ctx context.Context, req curator.Request) (*curator.Response, error)
}

// LearningStats is the read-only view of the pattern learner.
type LearningStats interface {
	Stats(ctx context.Context) (*learning.Stats, error)
	PopularKeywords(ctx context.Context, limit int) ([]string, error)
	FrequentQuestions(ctx context.Context, limit int) ([]learning.FrequentQuestion, error)
}

// Server is the curator HTTP server.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server
}

// New creates a server and registers all feature routes.
func New(cfg Config, answerer Answerer, stats LearningStats) *Server {
	s := &Server{cfg: cfg}
	s.router = s.buildRouter()
	RegisterChatRoutes(s.router, answerer)
	RegisterLearningRoutes(s.router, stats)
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("curator server listening on %s", s.cfg.Listen)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
