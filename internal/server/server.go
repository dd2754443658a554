// Package server provides the HTTP REST API for the skill roadmap generator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/skill-roadmap/internal/cache"
	"github.com/jonathan/skill-roadmap/internal/llm"
	"github.com/jonathan/skill-roadmap/internal/quiz"
	"github.com/jonathan/skill-roadmap/internal/roadmap"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	generator  *roadmap.Generator
	client     llm.Client

	mu       sync.RWMutex
	runs     map[string]*roadmap.Result
	sessions map[string]*quiz.Session
}

// Config holds server configuration
type Config struct {
	Port          int
	Client        llm.Client
	Store         cache.Store
	Timeout       time.Duration
	MaxConcurrent int
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	gen, err := roadmap.NewGenerator(roadmap.Options{
		Client:        cfg.Client,
		Store:         cfg.Store,
		Timeout:       cfg.Timeout,
		MaxConcurrent: int64(cfg.MaxConcurrent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	s := &Server{
		generator: gen,
		client:    cfg.Client,
		runs:      make(map[string]*roadmap.Result),
		sessions:  make(map[string]*quiz.Session),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Roadmap generation and retrieval
	mux.HandleFunc("POST /roadmaps", s.handleCreateRoadmap)
	mux.HandleFunc("GET /roadmaps/{id}", s.handleGetRoadmap)

	// Graph presentation helpers
	mux.HandleFunc("GET /roadmaps/{id}/layout", s.handleLayout)
	mux.HandleFunc("GET /roadmaps/{id}/highlight", s.handleHighlight)

	// Per-skill knowledge checks
	mux.HandleFunc("POST /roadmaps/{id}/quiz/question", s.handleQuizQuestion)
	mux.HandleFunc("POST /roadmaps/{id}/quiz/grade", s.handleQuizGrade)

	// Resource link preview
	mux.HandleFunc("GET /preview", s.handlePreview)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
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
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
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
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// storeRun records a completed generation run and returns its handle
// for later layout, highlight, and quiz requests.
func (s *Server) storeRun(id string, result *roadmap.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = result
	s.sessions[id] = quiz.NewSession(s.client, result.Roadmap.Topic)
}

// run returns the stored result for a run ID, or nil if unknown.
func (s *Server) run(id string) *roadmap.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs[id]
}

// session returns the quiz session for a run ID, or nil if unknown.
func (s *Server) session(id string) *quiz.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}
