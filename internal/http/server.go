package http

import (
	"context"
	"net/http"
	"time"

	"github.com/localpulse/localpulse/pkg/logger"
)

// RouteRegistrar is implemented by every handler in this package.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer builds the server with every handler's routes registered and an
// unauthenticated health endpoint.
func NewServer(addr string, log logger.Logger, handlers ...RouteRegistrar) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	for _, handler := range handlers {
		handler.RegisterRoutes(mux)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: log,
	}
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying mux (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
