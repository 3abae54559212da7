// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/restio/pkg/endpoint"
)

const defaultChangeCount = 50

// registerChanges mounts /changes, the recent mutation history recorded
// by the audit pipeline, newest first.
func (s *Server) registerChanges(mux *http.ServeMux, base []endpoint.Option) error {
	journal := s.deps.Changes()

	ep, err := endpoint.New(append(base,
		endpoint.WithGet(func(ctx context.Context, r *endpoint.Request) (any, error) {
			count := defaultChangeCount
			if raw := r.Param("count"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 1 {
					return nil, endpoint.BadRequestf("%q is not a valid count", raw)
				}
				count = n
			}
			return map[string]any{
				"total":   journal.Total(ctx),
				"changes": journal.Recent(ctx, count),
			}, nil
		}),
	)...)
	if err != nil {
		return err
	}

	s.handle(mux, "/changes", "changes", ep.ServeHTTP)
	return nil
}
