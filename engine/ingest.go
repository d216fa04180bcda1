package engine

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexandro/launchdex/catalog"
	"github.com/lexandro/launchdex/exclude"
	"github.com/lexandro/launchdex/match"
	"github.com/lexandro/launchdex/provider"
	"golang.org/x/sync/errgroup"
)

// ingestWorkers bounds the transform fan-out.
const ingestWorkers = 8

// ingest transforms one provider snapshot into a generation and publishes
// it. Each record maps independently into its own slot of a pre-sized
// array, so the parallel fan-out needs no locking; records that fail the
// exclusion check leave their slot nil.
//
// Publication is scoped to the subscription that carried the signal: a
// signal drained from a replaced or stopped subscription is discarded, so a
// restart can never have an old-config generation land on top of a fresh
// one.
func (e *Engine) ingest(sub provider.Subscription, sig provider.Signal, rules *exclude.Rules) {
	start := time.Now()

	slots := make([]*catalog.Item, len(sig.Records))
	var g errgroup.Group
	g.SetLimit(ingestWorkers)
	for i, rec := range sig.Records {
		g.Go(func() error {
			slots[i] = transformRecord(rec, rules)
			return nil
		})
	}
	g.Wait()

	var apps, files []*catalog.Item
	for _, it := range slots {
		switch {
		case it == nil:
		case it.IsApplication:
			apps = append(apps, it)
		default:
			files = append(files, it)
		}
	}

	// Shorter names are statistically the expected match, so they win ties
	// before any query-time ranking happens.
	sort.Slice(apps, func(i, j int) bool {
		return len(apps[i].Name) < len(apps[j].Name)
	})

	gen := &catalog.Generation{
		Apps:          apps,
		Files:         files,
		BuiltAt:       time.Now(),
		BuildDuration: time.Since(start),
	}
	// The subscription check and the publish share the critical section:
	// checking first and publishing after would leave a window for a
	// concurrent restart to publish in between.
	e.mu.Lock()
	if e.sub != sub {
		e.mu.Unlock()
		e.logger.Debug("discarding signal from torn-down subscription", "signal", sig.Kind)
		return
	}
	e.store.Publish(gen)
	e.lastIndexedAt = gen.BuiltAt
	e.lastIndexDuration = gen.BuildDuration
	e.mu.Unlock()

	e.logger.Info("published index generation",
		"signal", sig.Kind,
		"apps", len(apps),
		"files", len(files),
		"dropped", len(sig.Records)-len(apps)-len(files),
		"duration", gen.BuildDuration,
	)

	go e.preloadIcons(apps)
}

// transformRecord normalizes one raw record into an indexed item, or nil if
// the record is excluded or unusable. Records without a path are dropped
// silently per the provider contract.
func transformRecord(rec provider.RawRecord, rules *exclude.Rules) *catalog.Item {
	if rec.Path == "" {
		return nil
	}
	if rules.Excluded(rec.Path) {
		return nil
	}

	name := rec.DisplayName
	if name == "" {
		name = filepath.Base(rec.Path)
	}

	return &catalog.Item{
		ID:            uuid.NewString(),
		Name:          name,
		LowerName:     strings.ToLower(name),
		Path:          rec.Path,
		LastModified:  rec.ModTime,
		IsDirectory:   rec.Kind == provider.KindDirectory,
		IsApplication: rec.Kind == provider.KindApplication,
		Phonetic:      match.Phoneticize(name),
	}
}
