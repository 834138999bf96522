package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// Explorer is the running exploration as seen by the ops server. The
// pipeline satisfies it: it turns ready after its first frame and keeps the
// latest frame of every chart.
type Explorer interface {
	sharedobs.ReadinessChecker
	Frames() []session.Frame
}

// Server exposes the ops endpoints of an exploration:
//
//	GET /healthz  liveness
//	GET /readyz   ready once the first frame has been drawn
//	GET /metrics  Prometheus
//	GET /frames   latest frame of every chart, for a polling renderer
type Server struct {
	httpServer *http.Server
	explorer   Explorer
	logger     *slog.Logger
}

// NewServer creates the ops server for explorer on addr.
func NewServer(addr string, explorer Explorer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		explorer: explorer,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(explorer))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /frames", s.handleFrames)

	return s
}

// Serve runs the server until ctx is done, then drains connections within
// timeout. A listen failure is returned immediately.
func (s *Server) Serve(ctx context.Context, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("ops server starting", "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ops server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ops server shutdown: %w", err)
	}
	s.logger.Info("ops server stopped")
	return nil
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleFrames answers 503 until the first frame exists so a renderer can
// poll it the same way as /readyz.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	frames := s.explorer.Frames()
	if len(frames) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no frames rendered yet"})
		return
	}
	if name := r.URL.Query().Get("session"); name != "" {
		for _, f := range frames {
			if f.Session == name {
				writeJSON(w, http.StatusOK, f)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown session %q", name)})
		return
	}
	writeJSON(w, http.StatusOK, frames)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort ops response
}
