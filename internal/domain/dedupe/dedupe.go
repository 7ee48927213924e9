// Package dedupe tracks league entry ids already taken from the standings.
//
// Standings are paged and can shift while a gameweek is live, so the same
// entry may show up on two consecutive pages. A build keeps the first
// occurrence and drops the rest.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen entry ids.
type Deduper interface {
	// SeenAndRecord reports whether id was seen before and records it if not.
	SeenAndRecord(ctx context.Context, id int) bool

	// Unrecord forgets id so a later occurrence is accepted again.
	Unrecord(ctx context.Context, id int)

	// Reset forgets every id.
	Reset()

	Size() int
}

// inMemoryDeduper keeps ids in a map. When maxSize > 0 the oldest ids are
// evicted first once the bound is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[int]struct{}
	order   []int // insertion order, only maintained when bounded
	maxSize int
}

// NewInMemoryDeduper creates a deduper. It is unbounded unless WithMaxSize
// says otherwise.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[int]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	if d.maxSize > 0 {
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

func (d *inMemoryDeduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[int]struct{})
	d.order = d.order[:0]
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order = d.order[1:]
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
