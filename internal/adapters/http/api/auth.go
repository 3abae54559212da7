// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/restio/pkg/endpoint"
)

// registerAuth mounts the credential routes: POST /login checks a
// username and password from the request body, GET /whoami answers with
// the basic-auth identity.
func (s *Server) registerAuth(mux *http.ServeMux, base []endpoint.Option) error {
	login, err := endpoint.New(append(base,
		endpoint.WithAuth(&endpoint.CredentialsAuth{Verify: s.deps.VerifyCredentials}),
		endpoint.WithPost(endpoint.RequireUser(
			func(ctx context.Context, r *endpoint.Request) (any, error) {
				return map[string]any{"ok": true, "username": r.User}, nil
			},
		)),
	)...)
	if err != nil {
		return err
	}

	whoami, err := endpoint.New(append(base,
		endpoint.WithAuth(&endpoint.BasicAuth{
			Realm:  s.cfg.realm,
			Verify: s.deps.VerifyCredentials,
		}),
		endpoint.WithGet(endpoint.RequireUser(
			func(ctx context.Context, r *endpoint.Request) (any, error) {
				return map[string]any{"username": r.User}, nil
			},
		)),
	)...)
	if err != nil {
		return err
	}

	s.handle(mux, "/login", "login", login.ServeHTTP)
	s.handle(mux, "/whoami", "whoami", whoami.ServeHTTP)
	return nil
}
