// Package httpserver owns the http.Server defaults so main stays lean.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

// New returns an http.Server with sane timeouts for an API workload.
func New(addr string, handler http.Handler) *Server {
	return &Server{inner: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Server wraps http.Server with the lifecycle surface main needs.
type Server struct {
	inner *http.Server
}

func (s *Server) ListenAndServe() error {
	return s.inner.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
