// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	repository "github.com/okian/restio/internal/adapters/repository"
	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/pkg/endpoint"
	"github.com/okian/restio/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Authors() *repository.Store[model.Author]
	Books() *repository.Store[model.Book]
	Publishers() *repository.Store[model.Publisher]
	Changes() *repository.Journal

	// VerifyCredentials checks a username and password pair.
	VerifyCredentials(ctx context.Context, username, password string) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps          Dependencies
	stats         StatsProvider
	healthHandler *HealthHandler
	cfg           serverConfig
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	return &Server{
		deps:          deps,
		stats:         statsProvider,
		healthHandler: NewHealthHandler(),
		cfg:           newServerConfig(opts),
	}
}

// Register attaches all HTTP routes to mux. Endpoint construction can
// fail on bad wiring, so registration reports it rather than panicking
// halfway through startup.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) error {
	log := logger.Named("api")
	base := []endpoint.Option{
		endpoint.WithLogger(log),
		endpoint.WithMaxBody(s.cfg.maxBody),
		endpoint.WithDebug(s.cfg.debug),
	}

	authors := newAuthorHandlers(s.deps.Authors(), s.cfg, base)
	regs := []func() error{
		func() error { return authors.register(s, mux) },
		func() error { return s.registerBooks(mux, base) },
		func() error { return s.registerPublishers(mux, base) },
		func() error { return s.registerEcho(mux, base) },
		func() error { return s.registerAuth(mux, base) },
		func() error { return s.registerChanges(mux, base) },
		func() error { return s.registerStats(mux, base) },
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return fmt.Errorf("%w: %w", ErrRegister, err)
		}
	}

	s.handle(mux, "/healthz", "healthz", s.healthHandler.HandleHealth)
	return nil
}

// handle mounts a handler behind the shared middleware chain: request id
// tagging, rate limiting when configured, then metrics.
func (s *Server) handle(mux *http.ServeMux, pattern, name string, fn http.HandlerFunc) {
	fn = endpoint.Metrics(fn, name)
	if s.cfg.rateRPS > 0 {
		fn = endpoint.RateLimit(fn, s.cfg.rateRPS, s.cfg.rateBurst)
	}
	fn = endpoint.RequestID(fn)
	mux.HandleFunc(pattern, fn)
}
