// Package server exposes the detection pipeline over HTTP for interactive
// use: a scan endpoint accepting screenshot uploads plus health and metrics
// endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bonktools/itemscan/internal/pipeline"
)

// Config holds HTTP server settings.
type Config struct {
	Host string
	Port int

	// MaxUploadBytes bounds the accepted screenshot size.
	MaxUploadBytes int64
}

// DefaultConfig returns server defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		MaxUploadBytes: 32 << 20, // 32 MiB
	}
}

// Server wraps the pipeline behind an HTTP API.
type Server struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	httpSrv  *http.Server
}

// New creates a server over the given pipeline.
func New(cfg Config, p *pipeline.Pipeline) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}
	s := &Server{cfg: cfg, pipeline: p}

	mux := http.NewServeMux()
	mux.HandleFunc("/scan", s.loggingMiddleware(s.scanHandler))
	mux.HandleFunc("/healthz", s.loggingMiddleware(s.healthHandler))
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	slog.Info("server listening", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
