package dedupe

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestSeenAndRecord(t *testing.T) {
	d := NewInMemoryDeduper()
	ctx := context.Background()

	if d.SeenAndRecord(ctx, "change-1") {
		t.Error("first sighting should not report seen")
	}
	if !d.SeenAndRecord(ctx, "change-1") {
		t.Error("second sighting should report seen")
	}
	if d.SeenAndRecord(ctx, "change-2") {
		t.Error("distinct ID should not report seen")
	}
	if got := d.Size(); got != 2 {
		t.Errorf("expected size 2, got %d", got)
	}
}

func TestUnrecord(t *testing.T) {
	d := NewInMemoryDeduper()
	ctx := context.Background()

	d.SeenAndRecord(ctx, "change-1")
	d.Unrecord(ctx, "change-1")

	if got := d.Size(); got != 0 {
		t.Errorf("expected size 0 after unrecord, got %d", got)
	}
	if d.SeenAndRecord(ctx, "change-1") {
		t.Error("unrecorded ID should be treated as new")
	}

	// Unrecording an unknown ID is a no-op.
	d.Unrecord(ctx, "never-seen")
	if got := d.Size(); got != 1 {
		t.Errorf("expected size 1, got %d", got)
	}
}

func TestBoundedEviction(t *testing.T) {
	d := NewInMemoryDeduper(WithMaxSize(3))
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		d.SeenAndRecord(ctx, fmt.Sprintf("change-%d", i))
	}

	if got := d.Size(); got != 3 {
		t.Errorf("expected size capped at 3, got %d", got)
	}
	// change-1 was the oldest and should have been evicted.
	if d.SeenAndRecord(ctx, "change-1") {
		t.Error("evicted ID should be treated as new")
	}
	// change-4 is still tracked.
	if !d.SeenAndRecord(ctx, "change-4") {
		t.Error("recent ID should still be tracked")
	}
}

func TestUnbounded(t *testing.T) {
	d := NewInMemoryDeduper(WithMaxSize(0))
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		d.SeenAndRecord(ctx, fmt.Sprintf("change-%d", i))
	}
	if got := d.Size(); got != 1000 {
		t.Errorf("expected size 1000, got %d", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	d := NewInMemoryDeduper()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	firsts := make([]int, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if !d.SeenAndRecord(ctx, fmt.Sprintf("change-%d", i)) {
					firsts[w]++
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, n := range firsts {
		total += n
	}
	// Each of the 100 IDs is recorded exactly once across all workers.
	if total != 100 {
		t.Errorf("expected 100 first sightings, got %d", total)
	}
	if got := d.Size(); got != 100 {
		t.Errorf("expected size 100, got %d", got)
	}
}
