// Package provider supplies raw file-metadata records to the ingestion
// pipeline. The filesystem implementation walks the configured scopes and
// keeps its record set fresh with a debounced fsnotify watcher; the engine
// only sees the Provider interface, so tests substitute their own.
package provider

import "time"

// RawRecord is the provider's view of one filesystem entry, before the
// ingestion pipeline normalizes it into an indexed item.
type RawRecord struct {
	Path        string    // absolute path; a record without one is dropped downstream
	DisplayName string    // display name, falling back to the last path component
	Kind        Kind      // content classification
	ModTime     time.Time // last modification time
}

// SignalKind distinguishes the initial full gather from later updates.
type SignalKind int

const (
	// GatherComplete carries the first full set of records after StartGathering.
	GatherComplete SignalKind = iota
	// GatherUpdate carries a complete revised record set after filesystem changes.
	GatherUpdate
)

// Signal is one delivery from a subscription. Records is a snapshot owned
// by the receiver; the provider never mutates a slice it has sent.
type Signal struct {
	Kind    SignalKind
	Records []RawRecord
}

// MatchPredicate selects which records a subscription delivers. Records it
// rejects are invisible to the subscriber.
type MatchPredicate func(RawRecord) bool

// Subscription is one live gathering session.
type Subscription interface {
	// Signals yields a GatherComplete signal first, then zero or more
	// GatherUpdate signals. The channel closes after Stop.
	Signals() <-chan Signal
	// Stop cancels the subscription and releases watcher resources.
	Stop()
}

// Provider starts gathering sessions over a set of scope roots.
type Provider interface {
	StartGathering(scopes []string, match MatchPredicate) (Subscription, error)
}
