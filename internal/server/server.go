package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policyrelay/internal/api"
	"policyrelay/internal/config"
	"policyrelay/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server wraps the http.Server to provide graceful shutdown.
type Server struct {
	httpServer *http.Server
	log        *logrus.Logger
	onShutdown []func(context.Context) error
}

// New creates a new Server instance.
func New(cfg *config.Config, analyzeAPI *api.AnalyzeAPI, log *logrus.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           Handler(analyzeAPI, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Handler builds the routed, logged handler tree.
func Handler(analyzeAPI *api.AnalyzeAPI, log *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register handlers
	analyzeAPI.Routes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.Logger(mux, log)
}

// OnShutdown registers fn to run after the HTTP server has stopped.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Run starts the server and waits for a shutdown signal.
func (s *Server) Run() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatalf("Could not listen on %s: %v\n", s.httpServer.Addr, err)
		}
	}()
	s.log.Infof("Server is ready to handle requests at %s", s.httpServer.Addr)

	// Wait for a shutdown signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	s.Shutdown()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() {
	s.log.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Fatalf("Server shutdown failed: %v", err)
	}

	for _, fn := range s.onShutdown {
		if err := fn(ctx); err != nil {
			s.log.Warnf("Shutdown hook failed: %v", err)
		}
	}

	s.log.Info("Server gracefully stopped")
}
