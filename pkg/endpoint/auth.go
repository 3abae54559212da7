package endpoint

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
)

// Authenticator runs before the handler when configured on an Endpoint.
//
// A nil, nil return lets the request through (the authenticator should
// have set Request.User). A non-nil *Response short-circuits dispatch and
// is sent as-is, which is how challenges and denials are expressed. An
// error is treated exactly like a handler error.
type Authenticator interface {
	Authenticate(ctx context.Context, r *Request) (*Response, error)
}

// AuthFunc adapts a function to the Authenticator interface.
type AuthFunc func(ctx context.Context, r *Request) (*Response, error)

// Authenticate implements Authenticator.
func (f AuthFunc) Authenticate(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// BasicAuth authenticates requests with HTTP Basic credentials.
type BasicAuth struct {
	// Realm names the protected area in 401 challenges.
	Realm string

	// Verify reports whether the credentials are valid.
	Verify func(ctx context.Context, username, password string) bool
}

// Authenticate implements Authenticator.
func (b BasicAuth) Authenticate(ctx context.Context, r *Request) (*Response, error) {
	header := r.HTTP.Header.Get("Authorization")
	if header == "" {
		return Unauthorized(b.realm(), "unauthorized"), nil
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "basic") {
		return Unauthorized(b.realm(), "invalid authorization header"), nil
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return Unauthorized(b.realm(), "failed to read credentials"), nil
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Unauthorized(b.realm(), "failed to read credentials"), nil
	}

	if b.Verify == nil || !b.Verify(ctx, username, password) {
		return Unauthorized(b.realm(), "invalid credentials"), nil
	}
	r.User = username
	return nil, nil
}

func (b BasicAuth) realm() string {
	if b.Realm == "" {
		return "api"
	}
	return b.Realm
}

// CredentialsAuth authenticates with "username" and "password" fields
// taken from the request body on POST, from the query otherwise.
type CredentialsAuth struct {
	// Verify reports whether the credentials are valid.
	Verify func(ctx context.Context, username, password string) bool
}

// Authenticate implements Authenticator.
func (c CredentialsAuth) Authenticate(ctx context.Context, r *Request) (*Response, error) {
	var username, password string
	if r.Method() == http.MethodPost {
		username, password = r.Field("username"), r.Field("password")
	} else {
		username, password = r.Param("username"), r.Param("password")
	}

	if c.Verify == nil || !c.Verify(ctx, username, password) {
		return NewResponse(http.StatusUnauthorized, map[string]any{
			"error": "invalid credentials",
		}), nil
	}
	r.User = username
	return nil, nil
}

// RequireUser wraps a handler so it runs only for authenticated requests;
// anything else gets a 403.
func RequireUser(next Handler) Handler {
	return func(ctx context.Context, r *Request) (any, error) {
		if r.User == "" {
			return nil, Forbidden("forbidden")
		}
		return next(ctx, r)
	}
}
