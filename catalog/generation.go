package catalog

import (
	"sync/atomic"
	"time"
)

// Generation is one complete snapshot of the index: the applications bucket
// and the other-items bucket. A generation is immutable after construction
// and is only ever replaced wholesale, never mutated in place. Both buckets
// share item pointers, so scanning never copies item payloads.
type Generation struct {
	Apps  []*Item // applications, sorted by name length ascending
	Files []*Item // folders and documents

	BuiltAt       time.Time
	BuildDuration time.Duration
}

// Total returns the number of items across both buckets.
func (g *Generation) Total() int {
	return len(g.Apps) + len(g.Files)
}

// Store holds the currently published generation. Publish swaps the
// reference atomically: a reader mid-query keeps the generation it started
// with and never observes a mix of old and new items. This is the only
// state shared between ingestion and the query paths.
type Store struct {
	current atomic.Pointer[Generation]
}

// NewStore creates a store seeded with an empty generation, so queries
// against a not-yet-built index return empty results rather than nil panics.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Generation{BuiltAt: time.Now()})
	return s
}

// Current returns the currently published generation. Never nil.
func (s *Store) Current() *Generation {
	return s.current.Load()
}

// Publish atomically replaces the current generation.
func (s *Store) Publish(g *Generation) {
	s.current.Store(g)
}
