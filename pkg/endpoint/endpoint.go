// Package endpoint provides JSON endpoint dispatch on top of net/http.
//
// An Endpoint maps HTTP methods to handler functions. Handlers return a
// JSON-serializable value (wrapped in a 200 response), an explicit
// *Response, or an *Error carrying the status the client should see.
// Everything else about the request lifecycle stays with net/http.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/okian/restio/pkg/logger"
)

// Default cap on request body size accepted by ServeHTTP.
const defaultMaxBody = 1 << 20 // 1 MiB

// Handler processes a parsed request and returns the response payload.
// Return an *Error to control the HTTP status seen by the client; any
// other error is surfaced to the caller unmodified.
type Handler func(ctx context.Context, r *Request) (any, error)

// knownMethods is the fixed set of dispatchable HTTP methods.
var knownMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
	http.MethodHead:   {},
}

// Endpoint dispatches requests to per-method handlers. It holds no state
// between invocations and is safe for concurrent use.
type Endpoint struct {
	handlers map[string]Handler
	auth     Authenticator
	log      logger.Logger
	maxBody  int64
	debug    bool
}

// Option applies a configuration option to the Endpoint.
type Option func(*Endpoint) error

// WithMethod registers a handler for an HTTP method. The method name is
// matched case-insensitively against GET, POST, PUT, PATCH, DELETE and
// HEAD; anything else fails at construction.
func WithMethod(method string, h Handler) Option {
	return func(e *Endpoint) error {
		m := strings.ToUpper(strings.TrimSpace(method))
		if _, ok := knownMethods[m]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
		}
		if h == nil {
			return fmt.Errorf("%w: %s", ErrNilHandler, m)
		}
		if _, dup := e.handlers[m]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMethod, m)
		}
		e.handlers[m] = h
		return nil
	}
}

// WithGet registers the GET handler.
func WithGet(h Handler) Option { return WithMethod(http.MethodGet, h) }

// WithPost registers the POST handler.
func WithPost(h Handler) Option { return WithMethod(http.MethodPost, h) }

// WithPut registers the PUT handler.
func WithPut(h Handler) Option { return WithMethod(http.MethodPut, h) }

// WithPatch registers the PATCH handler.
func WithPatch(h Handler) Option { return WithMethod(http.MethodPatch, h) }

// WithDelete registers the DELETE handler.
func WithDelete(h Handler) Option { return WithMethod(http.MethodDelete, h) }

// WithHead registers the HEAD handler.
func WithHead(h Handler) Option { return WithMethod(http.MethodHead, h) }

// WithAuth sets an authenticator that runs before any handler.
func WithAuth(a Authenticator) Option {
	return func(e *Endpoint) error {
		e.auth = a
		return nil
	}
}

// WithLogger sets a logger used for surfacing handler failures.
func WithLogger(log logger.Logger) Option {
	return func(e *Endpoint) error {
		e.log = log
		return nil
	}
}

// WithMaxBody caps the request body size accepted by ServeHTTP.
func WithMaxBody(n int64) Option {
	return func(e *Endpoint) error {
		if n > 0 {
			e.maxBody = n
		}
		return nil
	}
}

// WithDebug toggles inclusion of internal error text in 500 responses.
func WithDebug(debug bool) Option {
	return func(e *Endpoint) error {
		e.debug = debug
		return nil
	}
}

// New builds an Endpoint from the given options. Handler registration is
// validated here so that a bad route table fails at startup, not on the
// first request.
func New(opts ...Option) (*Endpoint, error) {
	e := &Endpoint{
		handlers: make(map[string]Handler),
		maxBody:  defaultMaxBody,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Must is a helper for static route tables: it panics if err is non-nil.
func Must(e *Endpoint, err error) *Endpoint {
	if err != nil {
		panic(err)
	}
	return e
}

// Allowed returns the registered methods in sorted order.
func (e *Endpoint) Allowed() []string {
	methods := make([]string, 0, len(e.handlers))
	for m := range e.handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Dispatch selects the handler for the request method and maps its result
// to a response.
//
// An unregistered method yields a 405 response. A handler error that is an
// *Error (directly or wrapped) becomes a response with the error's status
// and an {"error": message} body. Any other error is returned to the
// caller unmodified; Dispatch never swallows unexpected failures.
func (e *Endpoint) Dispatch(ctx context.Context, r *Request) (*Response, error) {
	h, ok := e.handlers[strings.ToUpper(r.Method())]
	if !ok {
		return e.methodNotAllowed(), nil
	}

	if e.auth != nil {
		resp, err := e.auth.Authenticate(ctx, r)
		if err != nil {
			return e.errorResponse(err)
		}
		if resp != nil {
			return resp, nil
		}
	}

	v, err := h(ctx, r)
	if err != nil {
		return e.errorResponse(err)
	}
	if resp, isResp := v.(*Response); isResp {
		return resp, nil
	}
	return OK(v), nil
}

// ServeHTTP adapts the Endpoint to net/http: it parses the inbound
// request, dispatches it, and writes the JSON response. Errors Dispatch
// leaves unhandled become a 500 here; panics are not recovered.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r, e.maxBody)
	if err != nil {
		var derr *Error
		if errors.As(err, &derr) {
			_ = derr.response().Write(w)
			return
		}
		_ = e.internalResponse(r.Context(), err).Write(w)
		return
	}

	resp, err := e.Dispatch(r.Context(), req)
	if err != nil {
		_ = e.internalResponse(r.Context(), err).Write(w)
		return
	}
	_ = resp.Write(w)
}

// errorResponse translates a handler error: domain errors map to their
// declared status, everything else propagates.
func (e *Endpoint) errorResponse(err error) (*Response, error) {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.response(), nil
	}
	return nil, err
}

// methodNotAllowed builds the 405 response with an Allow header.
func (e *Endpoint) methodNotAllowed() *Response {
	resp := NewResponse(http.StatusMethodNotAllowed, map[string]any{
		"error": "method not allowed",
	})
	resp.Header.Set("Allow", strings.Join(e.Allowed(), ", "))
	return resp
}

// internalResponse builds the 500 response for an unclassified failure.
// The error text is withheld from clients unless debug mode is on.
func (e *Endpoint) internalResponse(ctx context.Context, err error) *Response {
	if e.log != nil {
		e.log.Error(ctx, "endpoint handler failed", logger.Error(err))
	}
	body := map[string]any{"error": "internal server error"}
	if e.debug {
		body["detail"] = err.Error()
	}
	return NewResponse(http.StatusInternalServerError, body)
}
