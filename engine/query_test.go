package engine

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lexandro/launchdex/catalog"
	"github.com/lexandro/launchdex/match"
)

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func Test_QueryNow_EmptyTextReturnsNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e, []*catalog.Item{newApp("Safari")}, nil)

	if got := e.QueryNow(""); len(got) != 0 {
		t.Errorf("empty query returned %d results", len(got))
	}
}

func Test_QueryNow_EmptyGeneration(t *testing.T) {
	e, _ := newTestEngine(t)
	if got := e.QueryNow("anything"); len(got) != 0 {
		t.Errorf("query against empty generation returned %d results", len(got))
	}
}

// Scenario: apps Safari and Notes, query "saf".
func Test_QueryNow_PrefixMatch(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e, []*catalog.Item{newApp("Safari"), newApp("Notes")}, nil)

	got := e.QueryNow("saf")
	if len(got) != 1 || got[0].Name != "Safari" {
		t.Fatalf("QueryNow(saf) = %v, want [Safari]", names(got))
	}
	if got[0].Tier != match.TierPrefix {
		t.Errorf("tier = %s, want prefix", got[0].Tier)
	}
}

// Scenario: phonetic lookup of a Han-named application.
func Test_QueryNow_PhoneticMatch(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e, []*catalog.Item{newApp("微信")}, nil)

	got := e.QueryNow("wx")
	if len(got) != 1 || got[0].Name != "微信" {
		t.Fatalf("QueryNow(wx) = %v, want [微信]", names(got))
	}
	if got[0].Tier != match.TierPhonetic {
		t.Errorf("tier = %s, want phonetic", got[0].Tier)
	}

	if got := e.QueryNow("weixin"); len(got) != 1 {
		t.Errorf("QueryNow(weixin) = %v, want [微信]", names(got))
	}

	// A non-ASCII query never matches phonetically.
	if got := e.QueryNow("莫"); len(got) != 0 {
		t.Errorf("QueryNow(莫) = %v, want no match", names(got))
	}
}

// Scenario: the Notes application outranks "My Notes.txt" regardless of the
// file's recency.
func Test_QueryNow_ApplicationsOutrankFiles(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e,
		[]*catalog.Item{newApp("Notes")},
		[]*catalog.Item{newFile("My Notes.txt", time.Now())},
	)

	got := e.QueryNow("notes")
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", names(got))
	}
	if got[0].Name != "Notes" || got[0].Tier != match.TierExact {
		t.Errorf("first result = %s (%s), want Notes (exact)", got[0].Name, got[0].Tier)
	}
	if got[1].Name != "My Notes.txt" || got[1].Tier != match.TierContains {
		t.Errorf("second result = %s (%s), want My Notes.txt (contains)", got[1].Name, got[1].Tier)
	}
}

// A Contains-tier application still precedes an Exact-tier file.
func Test_QueryNow_AppPrecedesFileAcrossTiers(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e,
		[]*catalog.Item{newApp("Supernotes")},
		[]*catalog.Item{newFile("notes", time.Now())},
	)

	got := e.QueryNow("notes")
	if len(got) != 2 || got[0].Name != "Supernotes" {
		t.Fatalf("apps must precede files regardless of tier, got %v", names(got))
	}
}

func Test_QueryNow_TierOrdering(t *testing.T) {
	e, _ := newTestEngine(t)
	now := time.Now()
	publish(e, nil, []*catalog.Item{
		newFile("annual report draft.txt", now),     // contains
		newFile("report", now.Add(-time.Hour)),      // exact
		newFile("report 2024.md", now.Add(-2*time.Hour)), // prefix
	})

	got := e.QueryNow("report")
	expected := []string{"report", "report 2024.md", "annual report draft.txt"}
	for i := range expected {
		if got[i].Name != expected[i] {
			t.Fatalf("order = %v, want %v", names(got), expected)
		}
	}
}

func Test_QueryNow_AppSecondaryKeyIsNameLength(t *testing.T) {
	e, _ := newTestEngine(t)
	// Deliberately unsorted bucket: ranking must not depend on ingest order.
	publish(e, []*catalog.Item{newApp("Notability"), newApp("Notes")}, nil)

	got := e.QueryNow("not")
	if len(got) != 2 || got[0].Name != "Notes" {
		t.Fatalf("expected shorter name first, got %v", names(got))
	}
}

// Scenario: 5000 other items, 21 matches, exactly 20 returned ordered by
// tier then recency.
func Test_QueryNow_FileCapAndOrdering(t *testing.T) {
	e, _ := newTestEngine(t)
	base := time.Now()

	var files []*catalog.Item
	for i := 0; i < 4979; i++ {
		files = append(files, newFile(fmt.Sprintf("noise-%04d.txt", i), base))
	}
	for i := 0; i < 21; i++ {
		files = append(files, newFile(fmt.Sprintf("report-%02d.txt", i), base.Add(time.Duration(i)*time.Minute)))
	}
	publish(e, nil, files)

	got := e.QueryNow("report")
	if len(got) != 20 {
		t.Fatalf("expected exactly 20 results, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Tier < got[i-1].Tier {
			t.Fatal("tier ordering violated")
		}
	}
	// All matched at the same tier, so recency decides: newest first.
	if got[0].Name != "report-20.txt" {
		t.Errorf("first result = %s, want the most recent match", got[0].Name)
	}
}

// A high-priority match that sits late in the scanned window must survive
// the result cap: caps may only drop the lowest-priority matches.
func Test_QueryNow_ResultCapKeepsBestMatches(t *testing.T) {
	e, _ := newTestEngine(t)
	now := time.Now()

	var files []*catalog.Item
	for i := 0; i < 25; i++ {
		files = append(files, newFile(fmt.Sprintf("weekly report %02d.txt", i), now))
	}
	files = append(files, newFile("report", now))
	publish(e, nil, files)

	got := e.QueryNow("report")
	if len(got) != maxFileResults {
		t.Fatalf("expected %d results, got %d", maxFileResults, len(got))
	}
	if got[0].Name != "report" || got[0].Tier != match.TierExact {
		t.Fatalf("first result = %s (%s), want the exact match", got[0].Name, got[0].Tier)
	}
}

func Test_QueryNow_AppCap(t *testing.T) {
	e, _ := newTestEngine(t)
	var apps []*catalog.Item
	for i := 0; i < 30; i++ {
		apps = append(apps, newApp(fmt.Sprintf("tool-%02d", i)))
	}
	publish(e, apps, nil)

	if got := e.QueryNow("tool"); len(got) != 10 {
		t.Errorf("expected app cap of 10, got %d", len(got))
	}
}

func Test_QueryNow_FileScanIterationCap(t *testing.T) {
	e, _ := newTestEngine(t)
	var files []*catalog.Item
	for i := 0; i < 6000; i++ {
		files = append(files, newFile(fmt.Sprintf("noise-%04d.txt", i), time.Now()))
	}
	// A match beyond the 5000-iteration cap is invisible to the immediate path.
	files = append(files, newFile("report.txt", time.Now()))
	publish(e, nil, files)

	if got := e.QueryNow("report"); len(got) != 0 {
		t.Errorf("immediate path scanned past its iteration cap: %v", names(got))
	}
}

// --- batched path ---

func submitAndWait(t *testing.T, e *Engine, text string) []Result {
	t.Helper()
	done := make(chan []Result, 1)
	e.QuerySubmit(text, func(r []Result) { done <- r })
	select {
	case r := <-done:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("batched query never delivered")
		return nil
	}
}

func Test_QuerySubmit_DeliversRankedResults(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e,
		[]*catalog.Item{newApp("Safari"), newApp("Notes")},
		[]*catalog.Item{newFile("safari-trip.md", time.Now())},
	)

	got := submitAndWait(t, e, "saf")
	expected := []string{"Safari", "safari-trip.md"}
	if len(got) != 2 || got[0].Name != expected[0] || got[1].Name != expected[1] {
		t.Errorf("results = %v, want %v", names(got), expected)
	}
}

// The batched path sees matches past the immediate path's iteration cap,
// but agrees with it on every Exact and Prefix match both can reach.
func Test_QuerySubmit_DeeperThanImmediatePath(t *testing.T) {
	e, _ := newTestEngine(t)
	var files []*catalog.Item
	for i := 0; i < 6000; i++ {
		files = append(files, newFile(fmt.Sprintf("noise-%04d.txt", i), time.Now()))
	}
	files = append(files, newFile("report.txt", time.Now()))
	publish(e, nil, files)

	got := submitAndWait(t, e, "report")
	if len(got) != 1 || got[0].Name != "report.txt" {
		t.Errorf("deep scan missed the far match: %v", names(got))
	}
}

func Test_QueryPaths_AgreeOnExactAndPrefix(t *testing.T) {
	e, _ := newTestEngine(t)
	now := time.Now()
	publish(e,
		[]*catalog.Item{newApp("Safari"), newApp("Sandbox")},
		[]*catalog.Item{
			newFile("saf", now),
			newFile("safari-notes.md", now),
			newFile("my-safari.txt", now),
		},
	)

	immediate := e.QueryNow("saf")
	batched := submitAndWait(t, e, "saf")

	pick := func(rs []Result) map[string]bool {
		out := make(map[string]bool)
		for _, r := range rs {
			if r.Tier == match.TierExact || r.Tier == match.TierPrefix {
				out[r.ID] = true
			}
		}
		return out
	}

	im, ba := pick(immediate), pick(batched)
	if len(im) != len(ba) {
		t.Fatalf("paths disagree on exact/prefix set: %d vs %d", len(im), len(ba))
	}
	for id := range im {
		if !ba[id] {
			t.Fatal("batched path missing an exact/prefix match the immediate path found")
		}
	}
}

func Test_QuerySubmit_EmptyTextDeliversEmpty(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e, []*catalog.Item{newApp("Safari")}, nil)

	if got := submitAndWait(t, e, ""); len(got) != 0 {
		t.Errorf("empty submit returned %d results", len(got))
	}
}

// Scenario: a second submission before the first completes means the first
// callback never fires.
func Test_QuerySubmit_NewSubmissionCancelsInFlight(t *testing.T) {
	e, _ := newTestEngine(t)
	publish(e, []*catalog.Item{newApp("abc app"), newApp("abcd app")}, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var gated atomic.Bool
	e.chunkGate = func() {
		if gated.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	}

	var cb1Fired atomic.Bool
	e.QuerySubmit("abc", func([]Result) { cb1Fired.Store(true) })

	<-entered // first query is now held mid-scan

	done := make(chan []Result, 1)
	e.QuerySubmit("abcd", func(r []Result) { done <- r })
	close(release)

	select {
	case got := <-done:
		if len(got) != 1 || got[0].Name != "abcd app" {
			t.Errorf("second query results = %v, want [abcd app]", names(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second query never delivered")
	}

	// Give the first query's goroutine time to misbehave if it were going to.
	time.Sleep(50 * time.Millisecond)
	if cb1Fired.Load() {
		t.Error("superseded query invoked its callback")
	}
}
