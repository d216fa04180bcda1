package catalog

import (
	"sync"
	"time"
)

// Item is one indexed filesystem entry. Items are immutable once constructed;
// every queryable field is precomputed at ingestion time so the query path
// never allocates or transforms strings.
type Item struct {
	ID           string    // stable unique id, distinct from Path
	Name         string    // display name
	LowerName    string    // precomputed lowercase form of Name
	Path         string    // absolute filesystem path
	LastModified time.Time // secondary ranking key for non-application items

	IsDirectory   bool
	IsApplication bool

	// Phonetic is nil when Name is pure ASCII. The matcher relies on the
	// nil check to skip phonetic comparison entirely for Latin names.
	Phonetic *Phonetic

	iconOnce sync.Once
	icon     Icon
}

// Phonetic holds the Latin transliteration of a non-ASCII name.
type Phonetic struct {
	Full    string // transliterated words joined without spaces, lowercased
	Acronym string // first letter of each transliterated word, lowercased
}

// Icon is the resolved display icon for an item.
type Icon struct {
	Glyph  string // rendered glyph
	Source string // path the glyph was resolved from, if any
}

// ResolveIcon returns the item's display icon, invoking fetch at most once
// across the item's lifetime. Concurrent first accesses run a single fetch;
// later calls return the memoized value without touching fetch. Different
// items' cells are independent.
func (it *Item) ResolveIcon(fetch func(*Item) Icon) Icon {
	it.iconOnce.Do(func() {
		it.icon = fetch(it)
	})
	return it.icon
}
