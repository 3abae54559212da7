// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/pkg/endpoint"
)

// registerPublishers mounts /publishers, /publishers/{id} and the
// /publishers/{id}/restock action. Publisher records cannot be deleted
// over HTTP, so the detail endpoint is restricted to reads and updates.
func (s *Server) registerPublishers(mux *http.ServeMux, base []endpoint.Option) error {
	store := s.deps.Publishers()

	list, err := endpoint.NewList(store,
		endpoint.WithPageSize(s.cfg.pageSize),
		endpoint.WithEndpointOptions(base...),
	)
	if err != nil {
		return err
	}
	detail, err := endpoint.NewDetail(store,
		endpoint.WithAllowed(http.MethodGet, http.MethodPut, http.MethodPatch),
		endpoint.WithKey(publisherID),
		endpoint.WithEndpointOptions(base...),
	)
	if err != nil {
		return err
	}

	restock, err := endpoint.NewAction(store,
		func(ctx context.Context, p model.Publisher, r *endpoint.Request) (any, error) {
			data, err := r.Object()
			if err != nil {
				return nil, err
			}
			amount, ok := restockAmount(data)
			if !ok || amount < 1 {
				return nil, endpoint.BadRequest("restock amount must be a positive integer")
			}
			// Increment under the store lock so concurrent restocks
			// cannot lose each other's updates.
			updated, err := store.Mutate(ctx, p.ID, func(p *model.Publisher) error {
				p.Restock(amount)
				return nil
			})
			if err != nil {
				return nil, translateNotFound(err)
			}
			return updated, nil
		},
		endpoint.WithEndpointOptions(base...),
	)
	if err != nil {
		return err
	}

	s.handle(mux, "/publishers", "publishers", list.ServeHTTP)
	s.handle(mux, "/publishers/", "publisher_detail", func(w http.ResponseWriter, r *http.Request) {
		// Route the action suffix by hand; everything else is detail.
		if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/restock") {
			restock.ServeHTTP(w, r)
			return
		}
		detail.ServeHTTP(w, r)
	})
	return nil
}

// restockAmount reads the "amount" field, which arrives as json.Number
// from JSON bodies and as a string from form encodings.
func restockAmount(data map[string]any) (int, bool) {
	switch v := data["amount"].(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// publisherID extracts the id from /publishers/{id} and
// /publishers/{id}/restock alike.
func publisherID(r *endpoint.Request) string {
	rest := strings.Trim(strings.TrimPrefix(r.HTTP.URL.Path, "/publishers/"), "/")
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
