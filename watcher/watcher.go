package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// IgnoreChecker is used by the watcher to check if a path should be ignored.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Options configures a Watcher.
type Options struct {
	Interval time.Duration // debounce quiet period, DefaultDebounceInterval if zero
	OnFlush  FlushFunc     // receives each debounced batch
	OnError  func(error)   // receives native watcher errors; may be nil
}

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	rootDir       string
	onError       func(error)
	logger        *slog.Logger
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

// NewWatcher creates a recursive file watcher on the given root directory.
// It registers all non-ignored subdirectories for watching. Call Start to
// begin delivering events.
func NewWatcher(rootDir string, ignoreChecker IgnoreChecker, options Options, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher:     fsWatcher,
		ignoreChecker: ignoreChecker,
		rootDir:       filepath.Clean(rootDir),
		onError:       options.OnError,
		logger:        logger,
	}

	w.debouncer = NewDebouncer(options.Interval, func(batch *ChangeSet) {
		w.rewatchRenamedDirs(batch)
		if options.OnFlush != nil {
			options.OnFlush(batch)
		}
	})

	if err := fsWatcher.Add(w.rootDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", w.rootDir, err)
	}
	w.addTree(w.rootDir)

	return w, nil
}

// addTree walks a directory and adds all non-ignored subdirectories to the watcher.
func (w *Watcher) addTree(dir string) {
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip entries that can't be read
		}
		if !d.IsDir() || path == w.rootDir {
			return nil
		}
		if w.ignoreChecker.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
}

// Start begins listening for file system events on a background goroutine.
// It runs until the watcher is closed.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handleEvent processes a single fsnotify event, recording it in the debouncer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while handling file event", "path", event.Name, "op", event.Op.String(), "panic", r)
		}
	}()

	path := event.Name

	switch {
	case event.Has(fsnotify.Create):
		isDir := false
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			isDir = true
		}
		if isDir {
			if w.ignoreChecker.ShouldIgnoreDir(path) {
				return
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			w.addTree(path)
		} else if w.ignoreChecker.ShouldIgnore(path) {
			return
		}
		w.debouncer.Created(path)

	case event.Has(fsnotify.Write):
		if w.ignoreChecker.ShouldIgnore(path) {
			return
		}
		w.debouncer.Changed(path)

	case event.Has(fsnotify.Remove):
		if w.ignoreChecker.ShouldIgnore(path) {
			return
		}
		w.debouncer.Deleted(path)

	case event.Has(fsnotify.Rename):
		// The new name, if it is still under the root, arrives as a Create.
		if w.ignoreChecker.ShouldIgnore(path) {
			return
		}
		if target := w.debouncer.RenameFrom(path); target != "" {
			// The directory's own watch reported the move and has been released
			w.rewatch(path, target)
		}
	}
}

// rewatch moves the watches of a renamed directory tree to its new name.
// inotify keeps the descriptors of the old names, so those are removed first.
func (w *Watcher) rewatch(oldDir string, newDir string) {
	info, err := os.Stat(newDir)
	if err != nil || !info.IsDir() {
		return
	}

	prefix := oldDir + string(filepath.Separator)
	for _, watched := range w.fsWatcher.WatchList() {
		if watched == oldDir || strings.HasPrefix(watched, prefix) {
			w.fsWatcher.Remove(watched)
		}
	}

	if err := w.fsWatcher.Add(newDir); err != nil {
		w.logger.Warn("failed to watch renamed directory", "path", newDir, "error", err)
	}
	w.addTree(newDir)
}

// rewatchRenamedDirs re-adds renamed directories that are not watched under
// their new name, for platforms that never repeat the rename.
func (w *Watcher) rewatchRenamedDirs(batch *ChangeSet) {
	if len(batch.Renamed) == 0 {
		return
	}
	watched := make(map[string]struct{})
	for _, path := range w.fsWatcher.WatchList() {
		watched[path] = struct{}{}
	}
	for oldPath, newPath := range batch.Renamed {
		if _, ok := watched[newPath]; !ok {
			w.rewatch(oldPath, newPath)
		}
	}
}

// Flush delivers any pending batch immediately.
func (w *Watcher) Flush() {
	w.debouncer.Flush()
}

// Close stops the watcher, waits for the event loop to exit, and discards
// pending events. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsWatcher.Close()
		w.wg.Wait()
		w.debouncer.Stop()
	})
	return err
}
