// Package repository provides the in-memory stores backing the catalog
// endpoints.
package repository

import (
	"context"
	"sync"

	"github.com/okian/restio/internal/domain/types"
)

const defaultJournalCapacity = 1024

// Journal keeps a bounded history of change records in arrival order.
// Once the capacity is reached the oldest records fall off; Total still
// counts everything ever appended.
type Journal struct {
	mu      sync.RWMutex
	entries []types.Change
	cap     int
	total   int64
}

// NewJournal creates a journal holding up to capacity records. A
// non-positive capacity falls back to the default.
func NewJournal(capacity int) *Journal {
	if capacity < 1 {
		capacity = defaultJournalCapacity
	}
	return &Journal{
		entries: make([]types.Change, 0, capacity),
		cap:     capacity,
	}
}

// Append records a change, evicting the oldest entry when full.
func (j *Journal) Append(ctx context.Context, c types.Change) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.entries) >= j.cap {
		j.entries = j.entries[1:]
	}
	j.entries = append(j.entries, c)
	j.total++
	return nil
}

// Recent returns up to n records, newest first. n < 1 returns everything
// retained.
func (j *Journal) Recent(ctx context.Context, n int) []types.Change {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n < 1 || n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]types.Change, 0, n)
	for i := len(j.entries) - 1; i >= len(j.entries)-n; i-- {
		out = append(out, j.entries[i])
	}
	return out
}

// Len returns the number of retained records.
func (j *Journal) Len(ctx context.Context) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Total returns the number of records ever appended.
func (j *Journal) Total(ctx context.Context) int64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.total
}
