package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/parfor/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server exposes a Metrics registry over HTTP at /metrics.
type Server struct {
	metrics *Metrics
	logger  logging.Logger
	srv     *http.Server
}

// NewServer creates a server for m listening on addr.
func NewServer(addr string, m *Metrics, logger logging.Logger) *Server {
	s := &Server{metrics: m, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.logger.Warn("rejected metrics request", logging.String("method", r.Method))
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// Serve listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving metrics", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	s.logger.Info("metrics server stopped")
	return nil
}
