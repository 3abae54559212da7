// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	repository "github.com/okian/restio/internal/adapters/repository"
	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/pkg/endpoint"
)

// authorHandlers serves /authors and /authors/{id} with hand-written
// handlers. The book and publisher routes use the generated collection
// endpoints instead; authors stay explicit as the worked example of the
// raw endpoint API.
type authorHandlers struct {
	store *repository.Store[model.Author]
	cfg   serverConfig
	base  []endpoint.Option
}

func newAuthorHandlers(store *repository.Store[model.Author], cfg serverConfig, base []endpoint.Option) *authorHandlers {
	return &authorHandlers{store: store, cfg: cfg, base: base}
}

func (h *authorHandlers) register(s *Server, mux *http.ServeMux) error {
	list, err := endpoint.New(append(h.base,
		endpoint.WithGet(h.list),
		endpoint.WithPost(h.create),
	)...)
	if err != nil {
		return err
	}
	detail, err := endpoint.New(append(h.base,
		endpoint.WithGet(h.get),
		endpoint.WithPut(h.update),
		endpoint.WithPatch(h.update),
		endpoint.WithDelete(h.delete),
	)...)
	if err != nil {
		return err
	}

	s.handle(mux, "/authors", "authors", list.ServeHTTP)
	s.handle(mux, "/authors/", "author_detail", detail.ServeHTTP)
	return nil
}

func (h *authorHandlers) list(ctx context.Context, r *endpoint.Request) (any, error) {
	items, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}
	p, err := endpoint.NewPaginator(items, h.cfg.pageSize)
	if err != nil {
		return nil, err
	}
	return p.Page(r.Page), nil
}

func (h *authorHandlers) create(ctx context.Context, r *endpoint.Request) (any, error) {
	data, err := r.Object()
	if err != nil {
		return nil, err
	}
	a, err := h.store.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	return endpoint.Created(a), nil
}

func (h *authorHandlers) get(ctx context.Context, r *endpoint.Request) (any, error) {
	a, err := h.store.Get(ctx, authorID(r))
	if err != nil {
		return nil, translateNotFound(err)
	}
	return a, nil
}

func (h *authorHandlers) update(ctx context.Context, r *endpoint.Request) (any, error) {
	data, err := r.Object()
	if err != nil {
		return nil, err
	}
	a, err := h.store.Update(ctx, authorID(r), data)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return a, nil
}

func (h *authorHandlers) delete(ctx context.Context, r *endpoint.Request) (any, error) {
	if err := h.store.Delete(ctx, authorID(r)); err != nil {
		return nil, translateNotFound(err)
	}
	return map[string]any{}, nil
}

// authorID extracts the id from /authors/{id}.
func authorID(r *endpoint.Request) string {
	return strings.Trim(strings.TrimPrefix(r.HTTP.URL.Path, "/authors/"), "/")
}

// translateNotFound maps store lookups onto 404s and leaves other errors
// for the 500 path.
func translateNotFound(err error) error {
	if errors.Is(err, endpoint.ErrNotFound) {
		return endpoint.NotFound("resource not found")
	}
	return err
}
