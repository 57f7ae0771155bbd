package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// Server exposes the default registry over HTTP while a benchmark runs.
type Server struct {
	addr   string
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
}

// NewServer prepares a server for addr. Nothing is bound until Start.
func NewServer(addr string, log *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, countScrapes(promhttp.Handler()))

	return &Server{
		addr:   addr,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger: log.Named("metrics"),
	}
}

// Addr returns the bound listen address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.logger.Info("serving metrics", zap.String("address", s.Addr()), zap.String("path", metricsPath))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the server. It is a no-op when Start never bound.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// countScrapes records the status of every response served by next.
func countScrapes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		ScrapeResponses.WithLabelValues(strconv.Itoa(rec.status)).Inc()
	})
}
