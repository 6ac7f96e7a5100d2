// Package preview serves a built output tree over HTTP during watch
// sessions.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// health is the /healthz payload. LastOutcome is empty until the first
// build finishes.
type health struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	LastOutcome   string    `json:"last_outcome,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// Server serves the output tree, a health endpoint, and optionally the
// build metrics registry.
type Server struct {
	root    string
	port    int
	metrics http.Handler

	srv     *http.Server
	ln      net.Listener
	started time.Time

	mu          sync.RWMutex
	lastOutcome string
	lastErr     error
}

// New configures a preview server over root. metrics may be nil, which
// disables the /metrics endpoint.
func New(root string, port int, metrics http.Handler) *Server {
	return &Server{root: root, port: port, metrics: metrics}
}

// SetBuildResult records the most recent build for the health endpoint.
func (s *Server) SetBuildResult(outcome string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOutcome = outcome
	s.lastErr = err
}

// Start binds the listener and serves in the background. Serving errors
// other than a clean shutdown are logged, not returned.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("bind preview server: %w", err)
	}
	s.ln = ln
	s.started = time.Now()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.root)))
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}

	s.srv = &http.Server{Handler: mux, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server error", logfields.Error(err))
		}
	}()

	slog.Info("preview server listening",
		logfields.URL(fmt.Sprintf("http://localhost:%d", s.Port())),
		slog.String("root", s.root))
	return nil
}

// Port returns the bound port. Useful when configured with port 0.
func (s *Server) Port() int {
	if s.ln == nil {
		return s.port
	}
	if addr, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.port
}

// Stop shuts the server down, letting in-flight requests finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	resp := health{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(s.started).Seconds(),
		LastOutcome:   s.lastOutcome,
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write health response", logfields.Error(err))
	}
}
