package endpoint

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/restio/pkg/serialize"
)

// Collection is the storage contract behind the generic list and detail
// endpoints. Implementations own validation: a Create or Update given bad
// data should return an *Error carrying 400 and the field problems.
type Collection[T any] interface {
	// List returns every element.
	List(ctx context.Context) ([]T, error)

	// Create validates data and stores a new element.
	Create(ctx context.Context, data map[string]any) (T, error)

	// Get returns the element for key. Wraps ErrNotFound when missing.
	Get(ctx context.Context, key string) (T, error)

	// Update validates data and applies it to the element for key.
	Update(ctx context.Context, key string, data map[string]any) (T, error)

	// Delete removes the element for key.
	Delete(ctx context.Context, key string) error
}

// Action is an RPC-style operation on a single collection element.
type Action[T any] func(ctx context.Context, obj T, r *Request) (any, error)

// CollectionOption configures the generated endpoints.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	allowed      map[string]bool
	pageSize     int
	key          func(*Request) string
	marshalOpts  []serialize.Option
	useMarshal   bool
	endpointOpts []Option
}

// WithAllowed restricts which of the endpoint's default methods get
// registered; requests for the rest are answered with 405.
func WithAllowed(methods ...string) CollectionOption {
	return func(c *collectionConfig) {
		c.allowed = make(map[string]bool, len(methods))
		for _, m := range methods {
			c.allowed[strings.ToUpper(strings.TrimSpace(m))] = true
		}
	}
}

// WithPageSize enables pagination of list results via the "page" query
// parameter, n items per page.
func WithPageSize(n int) CollectionOption {
	return func(c *collectionConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithKey overrides how the element key is extracted from a request. The
// default takes the last path segment.
func WithKey(fn func(r *Request) string) CollectionOption {
	return func(c *collectionConfig) {
		if fn != nil {
			c.key = fn
		}
	}
}

// WithSerialize runs response payloads through serialize.Marshal with the
// given options before encoding.
func WithSerialize(opts ...serialize.Option) CollectionOption {
	return func(c *collectionConfig) {
		c.marshalOpts = opts
		c.useMarshal = true
	}
}

// WithEndpointOptions forwards options (auth, logging, limits) to the
// generated Endpoint.
func WithEndpointOptions(opts ...Option) CollectionOption {
	return func(c *collectionConfig) {
		c.endpointOpts = append(c.endpointOpts, opts...)
	}
}

func newCollectionConfig(opts []CollectionOption, defaultKey func(*Request) string) *collectionConfig {
	cfg := &collectionConfig{key: defaultKey}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *collectionConfig) enabled(method string) bool {
	return c.allowed == nil || c.allowed[method]
}

func (c *collectionConfig) render(v any) any {
	if !c.useMarshal {
		return v
	}
	return serialize.Marshal(v, c.marshalOpts...)
}

// lastPathSegment extracts the trailing path segment of the request URL.
func lastPathSegment(r *Request) string {
	path := strings.TrimSuffix(r.HTTP.URL.Path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// actionPathSegment extracts the element key for action URLs shaped like
// /resource/{key}/action: the segment before the action name.
func actionPathSegment(r *Request) string {
	path := strings.TrimSuffix(r.HTTP.URL.Path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[:idx]
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// translateLookup maps storage not-found errors to a 404 domain error and
// leaves everything else alone.
func translateLookup(err error) error {
	if errors.Is(err, ErrNotFound) {
		return NotFound("resource not found")
	}
	return err
}

// NewList builds an endpoint over a collection with GET returning the
// element list and POST creating a new element.
func NewList[T any](c Collection[T], opts ...CollectionOption) (*Endpoint, error) {
	cfg := newCollectionConfig(opts, lastPathSegment)
	var eopts []Option

	if cfg.enabled(http.MethodGet) {
		eopts = append(eopts, WithGet(func(ctx context.Context, r *Request) (any, error) {
			items, err := c.List(ctx)
			if err != nil {
				return nil, err
			}
			if cfg.pageSize > 0 {
				p, err := NewPaginator(items, cfg.pageSize)
				if err != nil {
					return nil, err
				}
				items = p.Page(r.Page)
			}
			if items == nil {
				// An empty collection answers [] rather than null.
				items = []T{}
			}
			return cfg.render(items), nil
		}))
	}
	if cfg.enabled(http.MethodPost) {
		eopts = append(eopts, WithPost(func(ctx context.Context, r *Request) (any, error) {
			data, err := r.Object()
			if err != nil {
				return nil, err
			}
			obj, err := c.Create(ctx, data)
			if err != nil {
				return nil, err
			}
			return Created(cfg.render(obj)), nil
		}))
	}
	return New(append(eopts, cfg.endpointOpts...)...)
}

// NewDetail builds an endpoint over a single collection element, keyed by
// the request path: GET retrieves, PUT and PATCH update, DELETE removes.
func NewDetail[T any](c Collection[T], opts ...CollectionOption) (*Endpoint, error) {
	cfg := newCollectionConfig(opts, lastPathSegment)
	var eopts []Option

	if cfg.enabled(http.MethodGet) {
		eopts = append(eopts, WithGet(func(ctx context.Context, r *Request) (any, error) {
			obj, err := c.Get(ctx, cfg.key(r))
			if err != nil {
				return nil, translateLookup(err)
			}
			return cfg.render(obj), nil
		}))
	}

	update := func(ctx context.Context, r *Request) (any, error) {
		data, err := r.Object()
		if err != nil {
			return nil, err
		}
		obj, err := c.Update(ctx, cfg.key(r), data)
		if err != nil {
			return nil, translateLookup(err)
		}
		return cfg.render(obj), nil
	}
	if cfg.enabled(http.MethodPut) {
		eopts = append(eopts, WithPut(update))
	}
	if cfg.enabled(http.MethodPatch) {
		eopts = append(eopts, WithPatch(update))
	}

	if cfg.enabled(http.MethodDelete) {
		eopts = append(eopts, WithDelete(func(ctx context.Context, r *Request) (any, error) {
			if err := c.Delete(ctx, cfg.key(r)); err != nil {
				return nil, translateLookup(err)
			}
			return map[string]any{}, nil
		}))
	}
	return New(append(eopts, cfg.endpointOpts...)...)
}

// NewAction builds a POST-only endpoint invoking fn on the element the
// request path points at.
func NewAction[T any](c Collection[T], fn Action[T], opts ...CollectionOption) (*Endpoint, error) {
	cfg := newCollectionConfig(opts, actionPathSegment)
	var eopts []Option

	if cfg.enabled(http.MethodPost) {
		eopts = append(eopts, WithPost(func(ctx context.Context, r *Request) (any, error) {
			obj, err := c.Get(ctx, cfg.key(r))
			if err != nil {
				return nil, translateLookup(err)
			}
			return fn(ctx, obj, r)
		}))
	}
	return New(append(eopts, cfg.endpointOpts...)...)
}
