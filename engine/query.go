package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/lexandro/launchdex/catalog"
	"github.com/lexandro/launchdex/match"
)

// Per-query caps. The immediate path bounds latency with hard iteration
// counts rather than wall-clock timers, so worst-case cost per keystroke is
// deterministic.
const (
	maxAppResults  = 10   // applications returned per query
	maxFileResults = 20   // other items returned per query
	fileScanCap    = 5000 // immediate path: other-items iterations, whatever the bucket size
	appChunkSize   = 256  // batched path: applications per cancellation check
	fileChunkSize  = 1024 // batched path: other items per cancellation check
)

// Result is one ranked query hit.
type Result struct {
	ID            string
	Name          string
	Path          string
	IsDirectory   bool
	IsApplication bool
	Tier          match.Tier

	item *catalog.Item
}

// scored pairs an item with the tier it matched at, pre-ranking.
type scored struct {
	item *catalog.Item
	tier match.Tier
}

// QueryNow answers a query synchronously on the caller's thread. It targets
// low-single-digit milliseconds: no I/O, no locks, just scans over the
// published generation's precomputed fields. Empty text returns nil
// immediately so callers can show their idle view.
//
// The applications bucket is scanned in full; the other-items bucket across
// at most 5000 entries. The best 10 applications and 20 other items by rank
// survive, and ranked applications always precede ranked other items.
func (e *Engine) QueryNow(text string) []Result {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	ascii := match.IsASCII(lower)
	gen := e.store.Current()

	apps := scanBucket(gen.Apps, lower, ascii, len(gen.Apps))
	files := scanBucket(gen.Files, lower, ascii, fileScanCap)

	rankApps(apps)
	rankFiles(files)
	apps = truncate(apps, maxAppResults)
	files = truncate(files, maxFileResults)
	return toResults(apps, files)
}

// QuerySubmit runs the higher-fidelity batched query off the caller's
// thread and delivers through onResult unless superseded. Submitting again
// cancels the in-flight query (single-flight per engine): the prior query
// observes the cancellation between chunks and never invokes its callback.
// Batched queries are serial with respect to each other.
func (e *Engine) QuerySubmit(text string, onResult func([]Result)) {
	e.submitMu.Lock()
	if e.cancelSubmit != nil {
		e.cancelSubmit()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancelSubmit = cancel
	e.submitMu.Unlock()

	go func() {
		e.queryMu.Lock()
		defer e.queryMu.Unlock()

		results, ok := e.deepQuery(ctx, text)
		if !ok || ctx.Err() != nil {
			return // cancelled: no callback, by contract
		}
		onResult(results)
	}()
}

// deepQuery scans both buckets in full, in fixed-size chunks, checking for
// cancellation between chunks. ok is false when the scan was abandoned.
func (e *Engine) deepQuery(ctx context.Context, text string) ([]Result, bool) {
	if text == "" {
		return nil, true
	}
	lower := strings.ToLower(text)
	ascii := match.IsASCII(lower)
	gen := e.store.Current()

	apps, ok := e.scanChunked(ctx, gen.Apps, appChunkSize, lower, ascii)
	if !ok {
		return nil, false
	}
	files, ok := e.scanChunked(ctx, gen.Files, fileChunkSize, lower, ascii)
	if !ok {
		return nil, false
	}

	rankApps(apps)
	rankFiles(files)
	apps = truncate(apps, maxAppResults)
	files = truncate(files, maxFileResults)
	return toResults(apps, files), true
}

// scanBucket is the immediate path's scan, bounded by an iteration cap. It
// collects every match inside the cap; the result caps are applied only
// after ranking, so a high-priority match late in the scanned window can
// never be displaced by lower-priority matches collected earlier.
func scanBucket(items []*catalog.Item, lowerQuery string, ascii bool, scanCap int) []scored {
	if scanCap > len(items) {
		scanCap = len(items)
	}
	var out []scored
	for _, it := range items[:scanCap] {
		if tier := match.Classify(it, lowerQuery, ascii); tier != match.TierNoMatch {
			out = append(out, scored{it, tier})
		}
	}
	return out
}

// scanChunked is the batched path's scan over a whole bucket. Cancellation
// is polled between chunks, never mid-chunk.
func (e *Engine) scanChunked(ctx context.Context, items []*catalog.Item, chunk int, lowerQuery string, ascii bool) ([]scored, bool) {
	var out []scored
	for start := 0; start < len(items); start += chunk {
		if e.chunkGate != nil {
			e.chunkGate()
		}
		if ctx.Err() != nil {
			return nil, false
		}
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		for _, it := range items[start:end] {
			if tier := match.Classify(it, lowerQuery, ascii); tier != match.TierNoMatch {
				out = append(out, scored{it, tier})
			}
		}
	}
	return out, true
}

// rankApps orders application matches: tier ascending, then name length
// ascending.
func rankApps(matches []scored) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return len(matches[i].item.Name) < len(matches[j].item.Name)
	})
}

// rankFiles orders other-item matches: tier ascending, then last-modified
// descending.
func rankFiles(matches []scored) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return matches[i].item.LastModified.After(matches[j].item.LastModified)
	})
}

func truncate(matches []scored, max int) []scored {
	if len(matches) > max {
		return matches[:max]
	}
	return matches
}

// toResults concatenates ranked applications before ranked other items:
// launchable applications outrank files and folders regardless of tier.
func toResults(apps, files []scored) []Result {
	out := make([]Result, 0, len(apps)+len(files))
	for _, m := range apps {
		out = append(out, toResult(m))
	}
	for _, m := range files {
		out = append(out, toResult(m))
	}
	return out
}

func toResult(m scored) Result {
	return Result{
		ID:            m.item.ID,
		Name:          m.item.Name,
		Path:          m.item.Path,
		IsDirectory:   m.item.IsDirectory,
		IsApplication: m.item.IsApplication,
		Tier:          m.tier,
		item:          m.item,
	}
}
