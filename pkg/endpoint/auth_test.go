package endpoint_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/okian/restio/pkg/endpoint"
	. "github.com/smartystreets/goconvey/convey"
)

func basicHeader(user, pass string) map[string]string {
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
	return map[string]string{"Authorization": "Basic " + token}
}

func TestBasicAuth(t *testing.T) {
	Convey("Given an endpoint guarded by basic auth", t, func() {
		auth := endpoint.BasicAuth{
			Realm: "library",
			Verify: func(ctx context.Context, username, password string) bool {
				return username == "ana" && password == "sekrit"
			},
		}
		e := endpoint.Must(endpoint.New(
			endpoint.WithGet(endpoint.RequireUser(
				func(ctx context.Context, r *endpoint.Request) (any, error) {
					return map[string]any{"user": r.User}, nil
				},
			)),
			endpoint.WithAuth(auth),
		))

		Convey("When no credentials are sent", func() {
			w := serve(e, "GET", "/whoami", "", nil)

			Convey("Then a 401 challenge should come back", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(w.Header().Get("WWW-Authenticate"), ShouldEqual, `Basic realm="library"`)
			})
		})

		Convey("When the header is not basic auth", func() {
			w := serve(e, "GET", "/whoami", "", map[string]string{"Authorization": "Bearer xyz"})

			Convey("Then a 401 should come back", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody(t, w)["error"], ShouldEqual, "invalid authorization header")
			})
		})

		Convey("When the token is not valid base64", func() {
			w := serve(e, "GET", "/whoami", "", map[string]string{"Authorization": "Basic ???"})

			Convey("Then a 401 should come back", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody(t, w)["error"], ShouldEqual, "failed to read credentials")
			})
		})

		Convey("When the credentials are wrong", func() {
			w := serve(e, "GET", "/whoami", "", basicHeader("ana", "wrong"))

			Convey("Then a 401 should come back", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody(t, w)["error"], ShouldEqual, "invalid credentials")
			})
		})

		Convey("When the credentials are right", func() {
			w := serve(e, "GET", "/whoami", "", basicHeader("ana", "sekrit"))

			Convey("Then the handler should see the user", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(t, w)["user"], ShouldEqual, "ana")
			})
		})
	})
}

func TestCredentialsAuth(t *testing.T) {
	Convey("Given an endpoint guarded by credentials auth", t, func() {
		auth := endpoint.CredentialsAuth{
			Verify: func(ctx context.Context, username, password string) bool {
				return username == "ana" && password == "sekrit"
			},
		}
		e := endpoint.Must(endpoint.New(
			endpoint.WithGet(func(ctx context.Context, r *endpoint.Request) (any, error) {
				return map[string]any{"user": r.User}, nil
			}),
			endpoint.WithPost(func(ctx context.Context, r *endpoint.Request) (any, error) {
				return map[string]any{"user": r.User}, nil
			}),
			endpoint.WithAuth(auth),
		))

		Convey("When credentials arrive as query params", func() {
			w := serve(e, "GET", "/login?username=ana&password=sekrit", "", nil)

			Convey("Then the request should be authenticated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(t, w)["user"], ShouldEqual, "ana")
			})
		})

		Convey("When credentials arrive in a POST body", func() {
			w := serve(e, "POST", "/login", `{"username":"ana","password":"sekrit"}`,
				map[string]string{"Content-Type": "application/json"})

			Convey("Then the request should be authenticated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(t, w)["user"], ShouldEqual, "ana")
			})
		})

		Convey("When credentials are wrong", func() {
			w := serve(e, "GET", "/login?username=ana&password=nope", "", nil)

			Convey("Then a 401 should come back", func() {
				So(w.Code, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody(t, w)["error"], ShouldEqual, "invalid credentials")
			})
		})
	})
}

func TestCustomAuthenticator(t *testing.T) {
	Convey("Given a custom authenticator", t, func() {
		auth := endpoint.AuthFunc(func(ctx context.Context, r *endpoint.Request) (*endpoint.Response, error) {
			switch r.Param("user") {
			case "friend":
				r.User = "friend"
				return nil, nil
			case "foe":
				return endpoint.NewResponse(http.StatusForbidden,
					map[string]any{"error": "you shall not pass"}), nil
			default:
				return nil, endpoint.Forbidden("with error")
			}
		})
		e := endpoint.Must(endpoint.New(
			endpoint.WithGet(func(ctx context.Context, r *endpoint.Request) (any, error) {
				return "OK", nil
			}),
			endpoint.WithAuth(auth),
		))

		Convey("When the authenticator lets the request through", func() {
			w := serve(e, "GET", "/guarded?user=friend", "", nil)

			Convey("Then the handler should run", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the authenticator answers with a response", func() {
			w := serve(e, "GET", "/guarded?user=foe", "", nil)

			Convey("Then dispatch should short-circuit", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(decodeBody(t, w)["error"], ShouldEqual, "you shall not pass")
			})
		})

		Convey("When the authenticator raises a domain error", func() {
			w := serve(e, "GET", "/guarded?user=stranger", "", nil)

			Convey("Then it should map like a handler error", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(decodeBody(t, w)["error"], ShouldEqual, "with error")
			})
		})
	})
}
