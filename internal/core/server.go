// Package core provides the API chassis for the SkyMedic dispatch service.
// It creates a chi router, enforces cross-cutting concerns (panic recovery,
// timeouts, security headers, logging, CORS) before requests reach domain
// handlers, and standardizes response envelopes and error mapping.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/config"
)

// V1RouteRegistrar mounts a domain handler's routes under the /v1 group.
// Registrars are populated by the application entry point, which keeps the
// core package free of imports on handler packages.
type V1RouteRegistrar func(r chi.Router)

// Server encapsulates all dependencies for the SkyMedic API, allowing for
// easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator

	// V1RouteRegistrars are invoked in order when MountRoutes builds the
	// /v1 group.
	V1RouteRegistrars []V1RouteRegistrar

	// HealthProbes are executed concurrently by the /health endpoint.
	HealthProbes []HealthProbe

	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. The caller is responsible for mounting routes
// (via MountRoutes) after construction; this separation allows tests to
// customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	s := &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}

	return s, nil
}

// Handler returns the http.Handler interface for the router, for use with
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown performs a graceful termination of server resources. The service
// holds no external connections, so this only flushes state and logs; the
// context is accepted for symmetry with http.Server.Shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")
	s.Logger.Info("server shutdown complete")
	return nil
}
