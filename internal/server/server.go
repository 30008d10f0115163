// Package server provides the HTTP REST API for the resume screening service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/llm"
	"github.com/jonathan/resume-screener/internal/server/middleware"
)

// Fetcher retrieves a document from a URL. It exists as an interface so
// handlers can be tested with a counting mock instead of a live network.
type Fetcher interface {
	Document(ctx context.Context, url string) (*fetch.Result, error)
}

// httpFetcher is the production Fetcher backed by the fetch package.
type httpFetcher struct {
	opts *fetch.Options
}

func (f *httpFetcher) Document(ctx context.Context, url string) (*fetch.Result, error) {
	return fetch.Document(ctx, url, f.opts)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	client     llm.Client
	fetcher    Fetcher
	logger     *zap.Logger
}

// New creates a new server instance with an injected completion client.
func New(cfg *config.Config, client llm.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		client: client,
		logger: logger,
		fetcher: &httpFetcher{
			opts: &fetch.Options{
				Timeout:  cfg.FetchTimeout,
				MaxBytes: cfg.FetchMaxBytes,
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ai/complete", s.handleComplete)
	mux.HandleFunc("POST /resume/evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /resume/summary", s.handleSummary)
	mux.HandleFunc("POST /resume/project-description", s.handleProjectDescription)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      middleware.Identity(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Fetch plus completion can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.client.Close(); err != nil {
		s.logger.Warn("failed to close completion client", zap.Error(err))
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds structured request logging with a per-request ID and the
// caller identity when a bearer token supplied one.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
		}
		if caller := middleware.Caller(r); caller != "" {
			fields = append(fields, zap.String("caller", caller))
		}

		s.logger.Info("request started", fields...)
		next.ServeHTTP(w, r)
		s.logger.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
