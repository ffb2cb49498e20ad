// Package server contains the HTTP API of the local daemon. The daemon
// fronts a single in-process emulator so that CLIs and scripts can share
// one registry across invocations.
package server

import (
	"context"
	"net/http"
	"time"

	"funcplane/internal/client"
	"funcplane/internal/server/handlers"
	"funcplane/internal/server/middleware"
)

// Options tunes the server beyond its listen address.
type Options struct {
	// Pinger backs the readiness probe. Nil means always ready.
	Pinger handlers.Pinger

	// RateLimitRPS caps requests per second across all callers.
	// Zero means unlimited.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the HTTP server for the daemon API.
type Server struct {
	httpServer *http.Server
}

// New creates a new daemon server around an emulator.
func New(addr string, em *client.LocalEmulator, opts Options) *Server {
	h := handlers.New(em, opts.Pinger)
	rl := middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)

	mux := http.NewServeMux()

	mux.Handle("POST /functions", rl(http.HandlerFunc(h.RegisterFunction)))
	mux.Handle("GET /functions", rl(http.HandlerFunc(h.ListFunctions)))
	mux.Handle("GET /functions/{title}", rl(http.HandlerFunc(h.GetFunction)))
	mux.Handle("POST /functions/{title}/run", rl(http.HandlerFunc(h.RunFunction)))

	mux.Handle("GET /jobs", rl(http.HandlerFunc(h.ListJobs)))
	mux.Handle("GET /jobs/{id}", rl(http.HandlerFunc(h.GetJob)))
	mux.Handle("GET /jobs/{id}/logs", rl(http.HandlerFunc(h.GetLogs)))
	mux.Handle("POST /jobs/{id}/stop", rl(http.HandlerFunc(h.StopJob)))

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)

	return &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Runs block for the whole subprocess lifetime, so the write
			// timeout has to cover a full entrypoint execution.
			WriteTimeout: 10 * time.Minute,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
