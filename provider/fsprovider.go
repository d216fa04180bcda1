package provider

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSProvider implements Provider against the local filesystem. It walks the
// scope roots for the initial gather and keeps the record set fresh with a
// recursive fsnotify watcher whose events are coalesced into batches.
type FSProvider struct {
	Logger *slog.Logger

	// DebounceWindow is the quiet period before a change batch is applied.
	// Zero means the 200ms default.
	DebounceWindow time.Duration

	// ResyncInterval triggers a periodic full re-walk to catch changes the
	// watcher missed (network mounts, overflowed event queues). Zero
	// disables the sweep.
	ResyncInterval time.Duration

	// SkipDir, when set, prunes whole directory subtrees from the walk and
	// from watch registration. Ingestion applies its own exclusion check to
	// every record regardless; this only saves walking work.
	SkipDir func(path string) bool
}

// NewFSProvider returns a filesystem provider with default settings.
func NewFSProvider(logger *slog.Logger) *FSProvider {
	return &FSProvider{Logger: logger}
}

// StartGathering begins a gathering session over the scopes. The returned
// subscription delivers a GatherComplete signal once the initial walk
// finishes, then GatherUpdate signals as the filesystem changes.
func (p *FSProvider) StartGathering(scopes []string, match MatchPredicate) (Subscription, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	window := p.DebounceWindow
	if window == 0 {
		window = 200 * time.Millisecond
	}

	sub := &fsSubscription{
		logger:    p.Logger,
		scopes:    scopes,
		match:     match,
		skipDir:   p.SkipDir,
		resync:    p.ResyncInterval,
		watcher:   fsWatcher,
		coalescer: newCoalescer(window),
		records:   make(map[string]RawRecord),
		signals:   make(chan Signal, 4),
		done:      make(chan struct{}),
	}
	go sub.run()
	return sub, nil
}

type fsSubscription struct {
	logger    *slog.Logger
	scopes    []string
	match     MatchPredicate
	skipDir   func(string) bool
	resync    time.Duration
	watcher   *fsnotify.Watcher
	coalescer *coalescer

	mu      sync.Mutex
	records map[string]RawRecord

	signals  chan Signal
	done     chan struct{}
	stopOnce sync.Once
}

func (s *fsSubscription) Signals() <-chan Signal { return s.signals }

// Stop cancels the session and releases the watcher. Idempotent.
func (s *fsSubscription) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.watcher.Close()
	})
}

func (s *fsSubscription) run() {
	defer close(s.signals)

	go s.pumpWatcher()

	s.regather()
	s.emit(GatherComplete)

	var resyncTick <-chan time.Time
	if s.resync > 0 {
		ticker := time.NewTicker(s.resync)
		defer ticker.Stop()
		resyncTick = ticker.C
	}

	for {
		select {
		case <-s.done:
			return
		case batch := <-s.coalescer.output():
			s.applyChanges(batch)
			s.emit(GatherUpdate)
		case <-resyncTick:
			s.regather()
			s.emit(GatherUpdate)
		}
	}
}

// pumpWatcher feeds raw fsnotify events into the coalescer until the
// watcher is closed.
func (s *fsSubscription) pumpWatcher() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				s.coalescer.add(event.Name, OpGone)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				s.coalescer.add(event.Name, OpTouched)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.Warn("watcher error", "error", err)
			}
		}
	}
}

// regather replaces the record set with a fresh walk of every scope.
func (s *fsSubscription) regather() {
	fresh := make(map[string]RawRecord)
	for _, scope := range s.scopes {
		s.walkScope(scope, fresh)
	}

	s.mu.Lock()
	s.records = fresh
	s.mu.Unlock()
}

// walkScope walks one scope root, recording entries and registering
// directories with the watcher. Application bundles (*.app) are recorded as
// a single entry; their contents are not descended into.
func (s *fsSubscription) walkScope(scope string, into map[string]RawRecord) {
	filepath.WalkDir(scope, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are simply absent
		}
		if path == scope {
			s.watch(path)
			return nil
		}
		if d.IsDir() {
			if s.skipDir != nil && s.skipDir(path) {
				return filepath.SkipDir
			}
			if rec, ok := s.buildRecord(path, d); ok {
				into[path] = rec
				if rec.Kind == KindApplication {
					return filepath.SkipDir // do not index bundle internals
				}
			}
			s.watch(path)
			return nil
		}
		if rec, ok := s.buildRecord(path, d); ok {
			into[path] = rec
		}
		return nil
	})
}

// buildRecord stats one entry into a RawRecord, applying the subscription's
// match predicate. ok is false for rejected or unreadable entries.
func (s *fsSubscription) buildRecord(path string, d fs.DirEntry) (RawRecord, bool) {
	info, err := d.Info()
	if err != nil {
		return RawRecord{}, false
	}
	return s.recordFromInfo(path, info)
}

func (s *fsSubscription) recordFromInfo(path string, info fs.FileInfo) (RawRecord, bool) {
	kind := KindFor(path, info.IsDir(), info.Mode())
	rec := RawRecord{
		Path:        path,
		DisplayName: displayNameFor(path, kind),
		Kind:        kind,
		ModTime:     info.ModTime(),
	}
	if s.match != nil && !s.match(rec) {
		return RawRecord{}, false
	}
	return rec, true
}

// displayNameFor derives the user-visible name: the .desktop Name field when
// present, the bundle name without its .app suffix, otherwise the base name.
func displayNameFor(path string, kind Kind) string {
	base := filepath.Base(path)
	if kind != KindApplication {
		return base
	}
	switch {
	case strings.HasSuffix(base, ".app"):
		return strings.TrimSuffix(base, ".app")
	case strings.HasSuffix(strings.ToLower(base), ".desktop"):
		if entry, err := ReadDesktopEntry(path); err == nil && entry.Name != "" {
			return entry.Name
		}
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

// applyChanges folds a coalesced change batch into the record set. The lock
// is held only across map mutation; stat calls happen before it is taken.
func (s *fsSubscription) applyChanges(batch []Change) {
	type resolved struct {
		path   string
		gone   bool
		rec    RawRecord
		keep   bool
		subdir map[string]RawRecord
	}

	resolvedBatch := make([]resolved, 0, len(batch))
	for _, change := range batch {
		res := resolved{path: change.Path}
		info, err := os.Stat(change.Path)
		switch {
		case change.Op == OpGone || err != nil:
			res.gone = true
		case info.IsDir():
			// A new directory may carry a whole subtree with it.
			res.subdir = make(map[string]RawRecord)
			s.walkScope(change.Path, res.subdir)
			if rec, ok := s.recordFromInfo(change.Path, info); ok {
				res.rec, res.keep = rec, true
			}
		default:
			if rec, ok := s.recordFromInfo(change.Path, info); ok {
				res.rec, res.keep = rec, true
			}
		}
		resolvedBatch = append(resolvedBatch, res)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range resolvedBatch {
		if res.gone {
			delete(s.records, res.path)
			// Drop anything that lived under a removed directory.
			prefix := res.path + string(filepath.Separator)
			for p := range s.records {
				if strings.HasPrefix(p, prefix) {
					delete(s.records, p)
				}
			}
			continue
		}
		if res.keep {
			s.records[res.path] = res.rec
		} else {
			delete(s.records, res.path)
		}
		for p, rec := range res.subdir {
			s.records[p] = rec
		}
	}
}

// emit snapshots the record set and delivers a signal. The copy is taken
// under the lock so record updates are paused only for the duration of the
// reference copy, never for the receiver's processing.
func (s *fsSubscription) emit(kind SignalKind) {
	s.mu.Lock()
	snapshot := make([]RawRecord, 0, len(s.records))
	for _, rec := range s.records {
		snapshot = append(snapshot, rec)
	}
	s.mu.Unlock()

	select {
	case s.signals <- Signal{Kind: kind, Records: snapshot}:
	case <-s.done:
	}
}

func (s *fsSubscription) watch(dir string) {
	if err := s.watcher.Add(dir); err != nil && s.logger != nil {
		s.logger.Warn("failed to watch directory", "path", dir, "error", err)
	}
}
