// Package engine is the in-memory search-index core: it ingests raw
// metadata records into generations of indexed items and answers ranked
// fuzzy queries against the currently published generation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lexandro/launchdex/catalog"
	"github.com/lexandro/launchdex/exclude"
	"github.com/lexandro/launchdex/provider"
)

// Config is the search configuration the engine consumes. It is treated as
// a value: changing it takes effect only through a new StartIndexing call.
type Config struct {
	Scopes        []string // root directories to index
	ExcludedPaths []string // absolute path prefixes to drop
	ExcludedNames []string // path component names to drop anywhere
	Patterns      []string // doublestar glob exclusions
}

// Engine owns the indexed item store and the ingestion pipeline. Construct
// it once at the composition root and share it by reference; the metadata
// provider is injected so tests can substitute their own.
type Engine struct {
	provider provider.Provider
	store    *catalog.Store
	icons    IconResolver
	logger   *slog.Logger

	mu                sync.Mutex // guards the fields below
	sub               provider.Subscription
	rules             *exclude.Rules
	active            bool
	lastIndexedAt     time.Time
	lastIndexDuration time.Duration

	queryMu      sync.Mutex // serializes batched queries with each other
	submitMu     sync.Mutex // guards cancelSubmit
	cancelSubmit context.CancelFunc

	// chunkGate, when set, runs at every batched-query chunk boundary.
	// Tests use it to hold a query open across a cancellation.
	chunkGate func()
}

// New creates an engine backed by the given metadata provider. A nil icons
// resolver falls back to the built-in glyph resolver.
func New(p provider.Provider, icons IconResolver, logger *slog.Logger) *Engine {
	if icons == nil {
		icons = GlyphResolver{}
	}
	return &Engine{
		provider: p,
		store:    catalog.NewStore(),
		icons:    icons,
		logger:   logger,
	}
}

// StartIndexing (re)subscribes to the metadata provider with the scopes and
// exclusions in cfg. Calling it again tears down the previous subscription
// and begins a fresh gather; the caller is never blocked by indexing work.
// On provider failure the engine reports itself inactive and keeps serving
// the last published generation.
func (e *Engine) StartIndexing(cfg Config) error {
	rules := exclude.NewRules(exclude.Options{
		Scopes:        cfg.Scopes,
		ExcludedPaths: cfg.ExcludedPaths,
		ExcludedNames: cfg.ExcludedNames,
		Patterns:      cfg.Patterns,
	})

	e.mu.Lock()
	if e.sub != nil {
		e.sub.Stop()
		e.sub = nil
	}
	e.rules = rules
	e.mu.Unlock()

	sub, err := e.provider.StartGathering(cfg.Scopes, func(r provider.RawRecord) bool {
		return r.Kind != provider.KindArtifact
	})
	if err != nil {
		e.mu.Lock()
		e.active = false
		e.mu.Unlock()
		e.logger.Warn("metadata gathering failed to start, serving stale index", "error", err)
		return fmt.Errorf("starting metadata gathering: %w", err)
	}

	e.mu.Lock()
	e.sub = sub
	e.active = true
	e.mu.Unlock()

	go e.consume(sub, rules)
	return nil
}

// StopIndexing cancels the provider subscription. The last published
// generation stays available to queries: stale results beat none.
func (e *Engine) StopIndexing() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sub != nil {
		e.sub.Stop()
		e.sub = nil
	}
	e.active = false
}

// PathExcluded reports whether path is excluded under the engine's current
// configuration. Wired into the filesystem provider as its walk pruner.
func (e *Engine) PathExcluded(path string) bool {
	e.mu.Lock()
	rules := e.rules
	e.mu.Unlock()
	if rules == nil {
		return false
	}
	return rules.Excluded(path)
}

// consume turns every provider signal into a new published generation until
// the subscription's channel closes. Signals still buffered on a torn-down
// subscription are drained here but discarded by ingest.
func (e *Engine) consume(sub provider.Subscription, rules *exclude.Rules) {
	for sig := range sub.Signals() {
		e.ingest(sub, sig, rules)
	}
}

// Status is the engine's read-only diagnostic state.
type Status struct {
	Active            bool // a provider subscription is live
	TotalItems        int
	AppCount          int
	FileCount         int
	LastIndexDuration time.Duration
	LastIndexedAt     time.Time
}

// Status returns current diagnostic counters. No side effects.
func (e *Engine) Status() Status {
	gen := e.store.Current()

	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Active:            e.active,
		TotalItems:        gen.Total(),
		AppCount:          len(gen.Apps),
		FileCount:         len(gen.Files),
		LastIndexDuration: e.lastIndexDuration,
		LastIndexedAt:     e.lastIndexedAt,
	}
}

// Generation exposes the currently published generation for diagnostics and
// the presentation layer. The returned snapshot is immutable.
func (e *Engine) Generation() *catalog.Generation {
	return e.store.Current()
}
