// Package monitor turns raw file system events under a project root into a
// debounced stream of resource change notifications.
package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lexandro/resourcewatch/ignore"
	"github.com/lexandro/resourcewatch/metrics"
	"github.com/lexandro/resourcewatch/resource"
	"github.com/lexandro/resourcewatch/watcher"
)

var (
	// ErrAlreadyInitialized is returned by Initialize on a running monitor.
	ErrAlreadyInitialized = errors.New("monitor already initialized")
	// ErrRootNotFound is returned when the project root does not exist.
	ErrRootNotFound = errors.New("project root not found")
	// ErrNotDirectory is returned when the project root is not a directory.
	ErrNotDirectory = errors.New("project root is not a directory")
)

// Options configures a Monitor.
type Options struct {
	Publisher Publisher
	Filter    watcher.IgnoreChecker // defaults to ignore.NewMatcher for the root
	Debounce  time.Duration         // defaults to watcher.DefaultDebounceInterval
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Monitor watches one project root. The zero value is not usable; call New.
type Monitor struct {
	mu      sync.Mutex
	options Options
	logger  *slog.Logger
	rootDir string
	watcher *watcher.Watcher
	running bool
	// generation advances on every Initialize and Shutdown. Callbacks of a
	// watcher publish only while the generation they were started with is current.
	generation atomic.Uint64
}

// New creates a monitor. It does not watch anything until Initialize.
func New(options Options) *Monitor {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{options: options, logger: logger}
}

// Initialize starts watching rootDir recursively.
func (m *Monitor) Initialize(rootDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyInitialized
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving project root %s: %w", rootDir, err)
	}
	info, err := os.Stat(absRoot)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRootNotFound, absRoot)
	}
	if err != nil {
		return fmt.Errorf("checking project root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, absRoot)
	}

	filter := m.options.Filter
	if filter == nil {
		filter = ignore.NewMatcher(ignore.MatcherOptions{RootDir: absRoot})
	}

	gen := m.generation.Add(1)
	w, err := watcher.NewWatcher(absRoot, filter, watcher.Options{
		Interval: m.options.Debounce,
		OnFlush:  func(batch *watcher.ChangeSet) { m.dispatch(absRoot, batch, gen) },
		OnError:  func(error) { m.handleWatcherError(gen) },
	}, m.logger)
	if err != nil {
		m.generation.Add(1)
		return fmt.Errorf("starting watcher: %w", err)
	}
	w.Start()

	m.rootDir = absRoot
	m.watcher = w
	m.running = true
	m.logger.Info("resource monitor started", "root", absRoot)
	return nil
}

// Shutdown stops watching and discards pending changes. A batch being
// delivered when Shutdown is called stops before its next notification.
// It is safe to call more than once, including from a subscriber.
func (m *Monitor) Shutdown() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	w := m.watcher
	root := m.rootDir
	m.watcher = nil
	m.running = false
	m.generation.Add(1)
	m.mu.Unlock()

	if err := w.Close(); err != nil {
		m.logger.Warn("closing watcher", "root", root, "error", err)
	}
	m.logger.Info("resource monitor stopped", "root", root)
}

// IsRunning reports whether the monitor is watching.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RootDir returns the watched project root, or "" before Initialize.
func (m *Monitor) RootDir() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rootDir
}

// Flush delivers any pending batch now instead of after the debounce window.
func (m *Monitor) Flush() {
	m.mu.Lock()
	w := m.watcher
	m.mu.Unlock()
	if w != nil {
		w.Flush()
	}
}

func (m *Monitor) dispatch(rootDir string, batch *watcher.ChangeSet, gen uint64) {
	if !m.current(gen) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic while dispatching resource changes", "root", rootDir, "panic", r)
		}
	}()
	m.emit(rootDir, batch, gen)
}

// emit publishes one batch: created, changed, deleted, then renamed, followed
// by a single ResourcesChanged trigger if the resource set itself changed.
// It stops as soon as gen is no longer current.
func (m *Monitor) emit(rootDir string, batch *watcher.ChangeSet, gen uint64) {
	for _, path := range batch.CreatedPaths() {
		if key := m.toKey(rootDir, path); !key.IsEmpty() {
			if !m.publish(gen, Event{Kind: Created, Key: key}) {
				return
			}
		}
	}
	for _, path := range batch.ChangedPaths() {
		if key := m.toKey(rootDir, path); !key.IsEmpty() {
			if !m.publish(gen, Event{Kind: Changed, Key: key}) {
				return
			}
		}
	}
	for _, path := range batch.DeletedPaths() {
		if key := m.toKey(rootDir, path); !key.IsEmpty() {
			if !m.publish(gen, Event{Kind: Deleted, Key: key}) {
				return
			}
		}
	}
	for _, oldPath := range batch.RenamedPaths() {
		oldKey := m.toKey(rootDir, oldPath)
		newKey := m.toKey(rootDir, batch.Renamed[oldPath])
		if oldKey.IsEmpty() || newKey.IsEmpty() {
			continue
		}
		if !m.publish(gen, Event{Kind: Renamed, Key: newKey, OldKey: oldKey}) {
			return
		}
	}

	if batch.AffectsResourceSet() {
		if m.publish(gen, Event{Kind: ResourcesChanged}) {
			m.options.Metrics.RescanTriggered()
		}
	}
}

// handleWatcherError requests a rescan: events may have been lost, so the
// registry must re-read the disk to stay in sync.
func (m *Monitor) handleWatcherError(gen uint64) {
	m.options.Metrics.WatcherError()
	if m.publish(gen, Event{Kind: ResourcesChanged}) {
		m.options.Metrics.RescanTriggered()
	}
}

func (m *Monitor) current(gen uint64) bool {
	return m.generation.Load() == gen
}

func (m *Monitor) toKey(rootDir string, path string) resource.Key {
	key, err := resource.KeyFromPath(rootDir, path)
	if err != nil {
		m.logger.Warn("discarding change outside project root", "path", path, "root", rootDir)
		return ""
	}
	return key
}

// publish delivers event unless the monitor moved past gen. It reports
// whether the event was delivered.
func (m *Monitor) publish(gen uint64, event Event) bool {
	if !m.current(gen) {
		return false
	}
	m.options.Metrics.Notification(event.Kind.String())
	if m.options.Publisher != nil {
		m.options.Publisher.Publish(event)
	}
	return true
}
