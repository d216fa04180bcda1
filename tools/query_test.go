package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/launchdex/engine"
	"github.com/lexandro/launchdex/provider"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startedEngine indexes a temp directory with one document and waits for
// the generation to land.
func startedEngine(t *testing.T) *engine.Engine {
	t.Helper()
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "report.txt"), []byte("x"), 0644)

	e := engine.New(provider.NewFSProvider(testLogger()), nil, testLogger())
	if err := e.StartIndexing(engine.Config{Scopes: []string{tmpDir}}); err != nil {
		t.Fatalf("StartIndexing: %v", err)
	}
	t.Cleanup(e.StopIndexing)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.Status().TotalItems > 0 {
			return e
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("index never became ready")
	return nil
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func Test_QueryHandler_EmptyText(t *testing.T) {
	h := &QueryHandler{Engine: startedEngine(t), Logger: testLogger()}

	res, _, err := h.Handle(context.Background(), nil, QueryArgs{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected IsError for empty text")
	}
}

func Test_QueryHandler_FindsIndexedFile(t *testing.T) {
	h := &QueryHandler{Engine: startedEngine(t), Logger: testLogger()}

	res, _, err := h.Handle(context.Background(), nil, QueryArgs{Text: "report"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	out := textContent(t, res)
	if !strings.Contains(out, "report.txt") {
		t.Errorf("expected report.txt in output:\n%s", out)
	}
}

func Test_QueryHandler_NoMatches(t *testing.T) {
	h := &QueryHandler{Engine: startedEngine(t), Logger: testLogger()}

	res, _, err := h.Handle(context.Background(), nil, QueryArgs{Text: "zzzznope"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if out := textContent(t, res); !strings.Contains(out, "No matches") {
		t.Errorf("expected no-matches message, got:\n%s", out)
	}
}

func Test_StatusHandler_ReportsCounts(t *testing.T) {
	h := &StatusHandler{Engine: startedEngine(t), StartTime: time.Now(), Logger: testLogger()}

	res, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	out := textContent(t, res)
	if !strings.Contains(out, "Indexing active: true") {
		t.Errorf("missing active state:\n%s", out)
	}
	if !strings.Contains(out, "Indexed items: 1") {
		t.Errorf("missing item count:\n%s", out)
	}
}

func Test_ReindexHandler(t *testing.T) {
	called := false
	h := &ReindexHandler{
		DoReindex: func() error { called = true; return nil },
		Logger:    testLogger(),
	}

	res, _, err := h.Handle(context.Background(), nil, ReindexArgs{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !called {
		t.Error("DoReindex was not invoked")
	}
	if res.IsError {
		t.Error("unexpected error result")
	}
}

func Test_ReindexHandler_Error(t *testing.T) {
	h := &ReindexHandler{
		DoReindex: func() error { return errors.New("provider down") },
		Logger:    testLogger(),
	}

	res, _, err := h.Handle(context.Background(), nil, ReindexArgs{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected IsError when reindex fails")
	}
}
