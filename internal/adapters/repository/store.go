// Package repository provides the in-memory stores backing the catalog
// endpoints.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/restio/internal/domain/model"
	"github.com/okian/restio/internal/domain/types"
	"github.com/okian/restio/pkg/endpoint"
	"github.com/okian/restio/pkg/metrics"
)

// Store is an in-memory record store keyed by string. It keeps insertion
// order for stable listings and satisfies the collection contract used by
// the generated endpoints.
type Store[T any] struct {
	resource string
	key      func(T) string
	decode   func(map[string]any) (T, model.FieldErrors)
	apply    func(*T, map[string]any, model.FieldErrors)
	setKey   func(*T, string)
	newID    func() string
	audit    func(types.Change)

	mu    sync.RWMutex
	items map[string]T
	order []string
}

func newStore[T any](resource string, cfg *config) *Store[T] {
	return &Store[T]{
		resource: resource,
		newID:    cfg.newID,
		audit:    cfg.audit,
		items:    make(map[string]T),
		order:    make([]string, 0),
	}
}

// List returns every record in insertion order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	defer s.observe("list", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.items[k])
	}
	return out, nil
}

// Create validates data and stores a new record. A payload that fails
// validation comes back as a 400 with per-field problems; a key collision
// comes back as a 409.
func (s *Store[T]) Create(ctx context.Context, data map[string]any) (T, error) {
	defer s.observe("create", time.Now())

	var zero T
	obj, errs := s.decode(data)
	if len(errs) > 0 {
		return zero, validationError(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(obj)
	if k == "" {
		k = s.newID()
		obj = s.withKey(obj, k)
	}
	if _, exists := s.items[k]; exists {
		return zero, endpoint.Conflictf("%s %q already exists", s.resource, k)
	}
	s.items[k] = obj
	s.order = append(s.order, k)
	metrics.UpdateStoreRecords(s.resource, len(s.items))
	s.audited(types.OpCreate, k)
	return obj, nil
}

// Get returns the record for key, wrapping ErrNotFound when missing.
func (s *Store[T]) Get(ctx context.Context, key string) (T, error) {
	defer s.observe("get", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.items[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", s.resource, key, ErrNotFound)
	}
	return obj, nil
}

// Update applies data to the record for key. The record's key never
// changes through an update.
func (s *Store[T]) Update(ctx context.Context, key string, data map[string]any) (T, error) {
	defer s.observe("update", time.Now())

	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.items[key]
	if !ok {
		return zero, fmt.Errorf("%s %q: %w", s.resource, key, ErrNotFound)
	}

	errs := make(model.FieldErrors)
	s.apply(&obj, data, errs)
	if len(errs) > 0 {
		return zero, validationError(errs)
	}
	s.items[key] = obj
	s.audited(types.OpUpdate, key)
	return obj, nil
}

// Delete removes the record for key.
func (s *Store[T]) Delete(ctx context.Context, key string) error {
	defer s.observe("delete", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return fmt.Errorf("%s %q: %w", s.resource, key, ErrNotFound)
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateStoreRecords(s.resource, len(s.items))
	s.audited(types.OpDelete, key)
	return nil
}

// Mutate applies fn to the record for key under the store lock, so
// concurrent read-modify-write actions cannot lose updates.
func (s *Store[T]) Mutate(ctx context.Context, key string, fn func(*T) error) (T, error) {
	defer s.observe("mutate", time.Now())

	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.items[key]
	if !ok {
		return zero, fmt.Errorf("%s %q: %w", s.resource, key, ErrNotFound)
	}
	if err := fn(&obj); err != nil {
		return zero, err
	}
	s.items[key] = obj
	s.audited(types.OpReplace, key)
	return obj, nil
}

// Save replaces the record for key, for mutations computed outside the
// store lock.
func (s *Store[T]) Save(ctx context.Context, key string, obj T) error {
	defer s.observe("save", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return fmt.Errorf("%s %q: %w", s.resource, key, ErrNotFound)
	}
	s.items[key] = obj
	s.audited(types.OpReplace, key)
	return nil
}

// Count returns the number of records tracked by the store.
func (s *Store[T]) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// audited publishes a change record when an audit hook is installed.
func (s *Store[T]) audited(op, key string) {
	if s.audit != nil {
		s.audit(types.NewChange(s.resource, op, key))
	}
}

func (s *Store[T]) observe(op string, start time.Time) {
	metrics.RecordStoreOperation(s.resource, op)
	metrics.RecordStoreOperationLatency(s.resource, op, float64(time.Since(start).Milliseconds()))
}

// withKey stamps a generated key onto a record via the apply hook, which
// is the one place a store learns about its record type's fields.
func (s *Store[T]) withKey(obj T, key string) T {
	if s.setKey != nil {
		s.setKey(&obj, key)
	}
	return obj
}

func validationError(errs model.FieldErrors) error {
	details := make(map[string]any, len(errs))
	for field, problem := range errs {
		details[field] = problem
	}
	return endpoint.BadRequest("validation failed").WithDetails(details)
}

// NewAuthors builds a store of authors keyed by generated id.
func NewAuthors(opts ...Option) *Store[model.Author] {
	s := newStore[model.Author]("authors", newConfig(opts))
	s.key = func(a model.Author) string { return a.ID }
	s.setKey = func(a *model.Author, id string) { a.ID = id }
	s.decode = model.DecodeAuthor
	s.apply = func(a *model.Author, data map[string]any, errs model.FieldErrors) {
		a.Apply(data, errs)
	}
	return s
}

// NewBooks builds a store of books keyed by ISBN. The key comes from the
// payload, so creating a book without one is a validation error rather
// than a generated id.
func NewBooks(opts ...Option) *Store[model.Book] {
	s := newStore[model.Book]("books", newConfig(opts))
	s.key = func(b model.Book) string { return b.ISBN }
	s.decode = model.DecodeBook
	s.apply = func(b *model.Book, data map[string]any, errs model.FieldErrors) {
		b.Apply(data, errs)
	}
	return s
}

// NewPublishers builds a store of publishers keyed by generated id.
func NewPublishers(opts ...Option) *Store[model.Publisher] {
	s := newStore[model.Publisher]("publishers", newConfig(opts))
	s.key = func(p model.Publisher) string { return p.ID }
	s.setKey = func(p *model.Publisher, id string) { p.ID = id }
	s.decode = model.DecodePublisher
	s.apply = func(p *model.Publisher, data map[string]any, errs model.FieldErrors) {
		p.Apply(data, errs)
	}
	return s
}

func defaultID() string {
	return uuid.NewString()
}
