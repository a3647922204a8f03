// Package server exposes the analyzer over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iksnae/emotion-session/internal"
)

// Server routes HTTP requests to an Analyzer
type Server struct {
	analyzer *internal.Analyzer
	router   *mux.Router
	handler  http.Handler
	version  string
	now      func() time.Time
	newID    func() string
}

// Option configures a Server
type Option func(*Server)

// WithVersion sets the version reported by the index endpoint.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithSessionIDFunc replaces uuid generation for requests without a session.
func WithSessionIDFunc(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

// New creates a Server with all routes registered
func New(analyzer *internal.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		router:   mux.NewRouter(),
		version:  "dev",
		now:      time.Now,
		newID:    newSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	s.handler = recoverMiddleware(logMiddleware(corsMiddleware(s.router)))
	return s
}

func (s *Server) routes() {
	r := s.router
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/history/{session_id}", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/trends/{session_id}", s.handleTrend).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.handleSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{session_id}", s.handleDeleteSession).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		internal.LogInfo("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		internal.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
