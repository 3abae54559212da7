// Package repository provides the in-memory stores backing the catalog
// endpoints.
package repository

import "github.com/okian/restio/internal/domain/types"

// Option applies a configuration option to a store.
type Option func(*config)

type config struct {
	newID func() string
	audit func(types.Change)
}

func newConfig(opts []Option) *config {
	cfg := &config{newID: defaultID}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithIDGenerator overrides how generated record ids are produced, which
// tests use for deterministic keys.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithAudit sets a hook invoked after every successful mutation. The hook
// must not block; the audit pipeline hands records off to a queue.
func WithAudit(fn func(types.Change)) Option {
	return func(c *config) {
		c.audit = fn
	}
}
