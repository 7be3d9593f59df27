package telemetry

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// MetricsServer serves a Prometheus handler on /metrics.
type MetricsServer struct {
	srv *http.Server
	ln  net.Listener
}

// StartMetricsServer binds addr and serves h in the background.
func StartMetricsServer(addr string, h http.Handler) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	s := &MetricsServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server stopped", "error", err)
		}
	}()
	slog.Info("Metrics server listening", "addr", ln.Addr().String())
	return s, nil
}

// Addr returns the bound address.
func (s *MetricsServer) Addr() string {
	return s.ln.Addr().String()
}

// Close stops the server.
func (s *MetricsServer) Close() error {
	return s.srv.Close()
}
