// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/restio/pkg/endpoint"
)

// StatsProvider reports service counters for the /stats route.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// registerStats mounts /stats with per-resource record counts and the
// running change total.
func (s *Server) registerStats(mux *http.ServeMux, base []endpoint.Option) error {
	ep, err := endpoint.New(append(base,
		endpoint.WithGet(func(ctx context.Context, r *endpoint.Request) (any, error) {
			return s.stats.GetStats(), nil
		}),
	)...)
	if err != nil {
		return err
	}

	s.handle(mux, "/stats", "stats", ep.ServeHTTP)
	return nil
}
