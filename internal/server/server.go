// Package server provides the HTTP REST API for the interview system.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-agents/internal/pipeline"
	"github.com/jonathan/interview-agents/internal/search"
	"github.com/jonathan/interview-agents/internal/store"
)

// Runner executes one interview pipeline run. The pipeline orchestrator is
// the production implementation; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Config holds server configuration
type Config struct {
	Addr string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	runner     Runner
	store      *store.Store
	search     *search.VectorStore
	log        *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the interview listing endpoints.
func WithStore(s *store.Store) Option {
	return func(srv *Server) {
		srv.store = s
	}
}

// WithSearch enables the candidate history endpoint.
func WithSearch(vs *search.VectorStore) Option {
	return func(srv *Server) {
		srv.search = vs
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(srv *Server) {
		if log != nil {
			srv.log = log
		}
	}
}

// New creates a new server instance
func New(cfg Config, runner Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/start-interview", s.handleStartInterview)
	mux.HandleFunc("POST /api/v1/upload-cv", s.handleUploadCV)
	mux.HandleFunc("GET /api/v1/interviews", s.handleListInterviews)
	mux.HandleFunc("GET /api/v1/interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("DELETE /api/v1/interviews/{id}", s.handleDeleteInterview)
	mux.HandleFunc("GET /api/v1/candidates/{id}/history", s.handleCandidateHistory)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for full interview runs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.store != nil {
		s.store.Close()
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
