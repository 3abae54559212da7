package endpoint

import "fmt"

// Paginator slices a result set into fixed-size pages. Out-of-range page
// numbers clamp to the nearest valid page rather than failing, so "page
// past the end" reads as the last page.
type Paginator[T any] struct {
	items   []T
	perPage int
}

// NewPaginator creates a paginator over items with perPage entries per
// page. perPage must be at least 1.
func NewPaginator[T any](items []T, perPage int) (*Paginator[T], error) {
	if perPage < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, perPage)
	}
	return &Paginator[T]{items: items, perPage: perPage}, nil
}

// Count returns the total number of items.
func (p *Paginator[T]) Count() int { return len(p.items) }

// NumPages returns the number of pages; an empty set still has one page.
func (p *Paginator[T]) NumPages() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.perPage - 1) / p.perPage
}

// Page returns the items on page n (1-based), clamping n into range.
func (p *Paginator[T]) Page(n int) []T {
	if n < 1 {
		n = 1
	}
	if max := p.NumPages(); n > max {
		n = max
	}
	start := (n - 1) * p.perPage
	if start >= len(p.items) {
		// Never nil, so an empty page still encodes as a JSON array.
		return []T{}
	}
	end := start + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end]
}
