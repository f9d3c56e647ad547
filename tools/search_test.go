package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/lexandro/resourcewatch/search"
)

func newTestFindHandler(t *testing.T, files map[string]string) *FindHandler {
	t.Helper()
	registry := newTestRegistry(t, files)
	return &FindHandler{
		Engine: search.NewEngine(registry, search.Options{Logger: testLogger()}),
		Logger: testLogger(),
	}
}

func Test_FindHandler_EmptyTerm(t *testing.T) {
	h := newTestFindHandler(t, nil)

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Term: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty term")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "term parameter is required") {
		t.Errorf("expected error message about empty term, got: %s", text)
	}
}

func Test_FindHandler_BasicSearch(t *testing.T) {
	h := newTestFindHandler(t, map[string]string{
		"main.py": "def main():\n    print('hello world')\n",
		"util.py": "def helper():\n    return 42\n",
	})

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Term: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "── main.py ──") {
		t.Errorf("expected result to contain main.py, got:\n%s", text)
	}
	if !strings.Contains(text, "2: print('hello world')") {
		t.Errorf("expected numbered match line, got:\n%s", text)
	}
	if strings.Contains(text, "util.py") {
		t.Errorf("did not expect util.py in results, got:\n%s", text)
	}
}

func Test_FindHandler_Options(t *testing.T) {
	h := newTestFindHandler(t, map[string]string{
		"a.txt":      "Token token tokens\n",
		"docs/b.md":  "token\n",
		"docs/c.txt": "token\n",
	})

	result, _, _ := h.Handle(context.Background(), nil, FindArgs{
		Term:      "token",
		MatchCase: true,
		WholeWord: true,
		FileGlob:  "**/*.txt",
	})

	text := resultText(t, result)
	if !strings.Contains(text, "Found 2 matches in 2 files") {
		t.Errorf("expected 2 matches in 2 files, got:\n%s", text)
	}
	if strings.Contains(text, "b.md") {
		t.Errorf("glob should exclude b.md, got:\n%s", text)
	}
}

func Test_FindHandler_NoResults(t *testing.T) {
	h := newTestFindHandler(t, map[string]string{"main.py": "pass\n"})

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Term: "nonexistent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success (no error), got error result")
	}
	if text := resultText(t, result); text != "No matches found." {
		t.Errorf("expected 'No matches found.', got: %s", text)
	}
}

func Test_FindHandler_NewSearchCancelsPrevious(t *testing.T) {
	h := newTestFindHandler(t, nil)

	first, doneFirst := h.begin(context.Background())
	second, doneSecond := h.begin(context.Background())
	defer doneSecond()

	if first.Err() == nil {
		t.Error("expected the first search context to be cancelled")
	}
	if second.Err() != nil {
		t.Error("expected the second search context to be live")
	}

	// Finishing the superseded search must not clear the newer cancel func
	doneFirst()
	h.mu.Lock()
	hasCancel := h.cancel != nil
	h.mu.Unlock()
	if !hasCancel {
		t.Error("expected the in-flight search to stay registered")
	}
}
