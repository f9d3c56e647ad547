package resource

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type skipHidden struct{}

func (skipHidden) ShouldIgnoreDir(p string) bool { return strings.HasPrefix(filepath.Base(p), ".") }
func (skipHidden) ShouldIgnore(p string) bool    { return strings.HasPrefix(filepath.Base(p), ".") }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func Test_Registry_ScanSortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "a", "z.txt"), "z")
	writeFile(t, filepath.Join(root, ".hidden", "x.txt"), "x")
	writeFile(t, filepath.Join(root, ".env"), "x")

	r := NewRegistry(root, skipHidden{}, testLogger())
	result := r.Scan()

	if result.Total != 2 || result.Added != 2 || result.Removed != 0 {
		t.Fatalf("unexpected scan result: %+v", result)
	}

	files := r.Files()
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Key != "a/z.txt" || files[1].Key != "b.txt" {
		t.Errorf("expected sorted keys [a/z.txt b.txt], got [%s %s]", files[0].Key, files[1].Key)
	}
	if files[0].Path != filepath.Join(root, "a", "z.txt") {
		t.Errorf("unexpected absolute path: %s", files[0].Path)
	}
}

func Test_Registry_RescanDiff(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "k")
	writeFile(t, filepath.Join(root, "gone.txt"), "g")

	r := NewRegistry(root, nil, testLogger())
	r.Scan()

	os.Remove(filepath.Join(root, "gone.txt"))
	writeFile(t, filepath.Join(root, "new.txt"), "n")

	result := r.Scan()
	if result.Added != 1 || result.Removed != 1 || result.Total != 2 {
		t.Errorf("expected added=1 removed=1 total=2, got %+v", result)
	}
	if r.FileCount() != 2 {
		t.Errorf("expected 2 files, got %d", r.FileCount())
	}
}

func Test_Registry_Lookup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.py"), "print(1)")

	r := NewRegistry(root, nil, testLogger())
	r.Scan()

	if key := r.Lookup(filepath.Join(root, "src", "main.py")); key != "src/main.py" {
		t.Errorf("expected 'src/main.py', got '%s'", key)
	}
	if key := r.Lookup(filepath.Join(root, "missing.py")); !key.IsEmpty() {
		t.Errorf("expected empty key for unknown file, got '%s'", key)
	}
	if key := r.Lookup("/elsewhere/main.py"); !key.IsEmpty() {
		t.Errorf("expected empty key for path outside root, got '%s'", key)
	}
}
