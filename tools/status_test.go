package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/resourcewatch/monitor"
)

// --- formatDuration ---

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_30", 30 * time.Second, "30s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_1m0s", 60 * time.Second, "1m0s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_1h30m", 90 * time.Minute, "1h30m"},
		{"Hours_2h0m", 2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

// --- StatusHandler ---

func Test_StatusHandler_Handle(t *testing.T) {
	registry := newTestRegistry(t, map[string]string{"main.py": "pass\n", "lib/util.py": "pass\n"})
	feed := NewChangeFeed(10)
	feed.Record(monitor.Event{Kind: monitor.Created, Key: "main.py"})

	h := &StatusHandler{
		Registry:  registry,
		Monitor:   monitor.New(monitor.Options{Logger: testLogger()}),
		Feed:      feed,
		StartTime: time.Now(),
		Logger:    testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	checks := []string{
		"resourcewatch Status",
		registry.ProjectRoot(),
		"File resources: 2",
		"Change monitor: stopped",
		"Recorded notifications: 1",
	}
	for _, check := range checks {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
}

func Test_StatusHandler_MonitorRunning(t *testing.T) {
	registry := newTestRegistry(t, nil)
	m := monitor.New(monitor.Options{Logger: testLogger()})
	if err := m.Initialize(registry.ProjectRoot()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer m.Shutdown()

	h := &StatusHandler{Registry: registry, Monitor: m, StartTime: time.Now(), Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, StatusArgs{})
	text := resultText(t, result)
	if !strings.Contains(text, "Change monitor: running") {
		t.Errorf("expected running monitor, got:\n%s", text)
	}
	if strings.Contains(text, "Recorded notifications") {
		t.Errorf("did not expect feed line without a feed, got:\n%s", text)
	}
}
