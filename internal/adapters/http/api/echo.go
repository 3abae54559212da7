// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/okian/restio/pkg/endpoint"
)

// registerEcho mounts /echo, a diagnostic route answering every method
// with a description of the request it received. Raw bodies come back
// base64 encoded so binary payloads survive the JSON envelope.
func (s *Server) registerEcho(mux *http.ServeMux, base []endpoint.Option) error {
	echo := func(ctx context.Context, r *endpoint.Request) (any, error) {
		headers := make(map[string]string, len(r.HTTP.Header))
		for name, values := range r.HTTP.Header {
			headers[name] = strings.Join(values, ", ")
		}
		out := map[string]any{
			"method":  r.Method(),
			"path":    r.HTTP.URL.Path,
			"params":  r.Params,
			"headers": headers,
		}
		if len(r.Raw) > 0 {
			out["content_type"] = r.ContentType
			out["body"] = base64.StdEncoding.EncodeToString(r.Raw)
		}
		return out, nil
	}

	ep, err := endpoint.New(append(base,
		endpoint.WithGet(echo),
		endpoint.WithPost(echo),
		endpoint.WithPut(echo),
		endpoint.WithPatch(echo),
		endpoint.WithDelete(echo),
		endpoint.WithMethod(http.MethodHead, echo),
	)...)
	if err != nil {
		return err
	}

	s.handle(mux, "/echo", "echo", ep.ServeHTTP)
	return nil
}
