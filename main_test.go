package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/resourcewatch/config"
	"github.com/lexandro/resourcewatch/monitor"
	"github.com/lexandro/resourcewatch/search"
)

func Test_parseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func Test_setupLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "rw.log")
	l, closer := setupLogger(config.LoggingConfig{Level: "info", File: logFile, MaxSizeMB: 1, MaxBackups: 1})
	l.Info("hello from test")
	closer.Close()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("expected log line in file, got %q", data)
	}
}

func Test_applyFlags_OnlyChangedFlags(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Excludes = []string{"from-config"}
	cfg.Logging.Level = "warn"

	if err := rootCmd.ParseFlags([]string{"--root", "/projects/x", "--max-results", "5", "--exclude", "*.bak", "--debounce", "1s"}); err != nil {
		t.Fatal(err)
	}
	applyFlags(rootCmd, cfg)

	if cfg.Root != "/projects/x" || cfg.Search.MaxResults != 5 || cfg.Debounce != time.Second {
		t.Errorf("expected flags to override config, got %+v", cfg)
	}
	if strings.Join(cfg.Excludes, ",") != "from-config,*.bak" {
		t.Errorf("expected excludes to be appended, got %v", cfg.Excludes)
	}
	if cfg.Logging.Level != "warn" || cfg.Search.MaxFileSize != search.DefaultMaxFileSize {
		t.Errorf("unset flags must keep config values, got %+v", cfg)
	}
}

func Test_openProject(t *testing.T) {
	rootDir := t.TempDir()
	os.WriteFile(filepath.Join(rootDir, "main.py"), []byte("print('hi')\n"), 0644)
	os.MkdirAll(filepath.Join(rootDir, "celbridge"), 0755)
	os.WriteFile(filepath.Join(rootDir, "celbridge", "cache.txt"), []byte("hi"), 0644)

	cfg, _ := config.Load("")
	cfg.Root = rootDir

	p, err := openProject(cfg, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.close()

	if p.resources.FileCount() != 1 {
		t.Errorf("expected 1 file resource, got %d", p.resources.FileCount())
	}
	if p.monitor.IsRunning() {
		t.Error("monitor must not start before startMonitor")
	}
}

func Test_openProject_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	os.WriteFile(file, []byte("x"), 0644)

	cfg, _ := config.Load("")
	cfg.Root = file

	if _, err := openProject(cfg, testLogger()); !errors.Is(err, monitor.ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func Test_eventPrinter(t *testing.T) {
	var out bytes.Buffer
	clock := func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	printEvent := eventPrinter(&out, clock)

	printEvent(monitor.Event{Kind: monitor.Created, Key: "docs/new.md"})
	printEvent(monitor.Event{Kind: monitor.Renamed, Key: "b.py", OldKey: "a.py"})
	printEvent(monitor.Event{Kind: monitor.ResourcesChanged})

	expected := "07:08:09.000  created   docs/new.md\n" +
		"07:08:09.000  renamed   a.py -> b.py\n" +
		"07:08:09.000  resources_changed\n"
	if out.String() != expected {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
