// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/google/uuid"
)

// Change operations recorded by the audit pipeline.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReplace = "replace"
)

// Change describes one mutation applied to a stored resource.
type Change struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	Op       string    `json:"op"`
	Key      string    `json:"key"`
	At       time.Time `json:"at"`
}

// NewChange creates a change record with a fresh ID and timestamp.
func NewChange(resource, op, key string) Change {
	return Change{
		ID:       uuid.NewString(),
		Resource: resource,
		Op:       op,
		Key:      key,
		At:       time.Now().UTC(),
	}
}
