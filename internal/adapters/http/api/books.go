// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/pkg/endpoint"
	"github.com/okian/restio/pkg/serialize"
)

// registerBooks mounts /books and /books/{isbn} through the generated
// collection endpoints. The detail key is the ISBN straight from the
// path, and every record carries a self link.
func (s *Server) registerBooks(mux *http.ServeMux, base []endpoint.Option) error {
	store := s.deps.Books()
	selfLink := serialize.Computed("self", func(src any) any {
		return "/books/" + src.(model.Book).ISBN
	})

	list, err := endpoint.NewList(store,
		endpoint.WithPageSize(s.cfg.pageSize),
		endpoint.WithSerialize(selfLink),
		endpoint.WithEndpointOptions(base...),
	)
	if err != nil {
		return err
	}
	detail, err := endpoint.NewDetail(store,
		endpoint.WithSerialize(selfLink),
		endpoint.WithEndpointOptions(base...),
	)
	if err != nil {
		return err
	}

	s.handle(mux, "/books", "books", list.ServeHTTP)
	s.handle(mux, "/books/", "book_detail", detail.ServeHTTP)
	return nil
}
