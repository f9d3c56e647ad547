package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceInterval is the quiet period before a batch is flushed.
const DefaultDebounceInterval = 500 * time.Millisecond

// FlushFunc receives one debounced batch. It runs on the timer goroutine.
type FlushFunc func(batch *ChangeSet)

// Debouncer collects file system events and emits a ChangeSet after a quiet period.
// The timer is single-shot and restarted by every new event. Recording an event
// and swapping out the pending set happen under the same mutex.
type Debouncer struct {
	interval   time.Duration
	flush      FlushFunc
	mu         sync.Mutex
	pending    *ChangeSet
	renameFrom string // old path of a rename waiting for its create
	timer      *time.Timer
	stopped    bool
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration, flush FlushFunc) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Debouncer{
		interval: interval,
		flush:    flush,
		pending:  NewChangeSet(),
	}
}

// Created records a created path. It completes a pending rename if there is one.
func (d *Debouncer) Created(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.renameFrom != "" {
		oldPath := d.renameFrom
		d.renameFrom = ""
		d.pending.AddRenamed(oldPath, path)
	} else {
		d.pending.AddCreated(path)
	}
	d.restartTimer()
}

// Changed records a content change.
func (d *Debouncer) Changed(path string) {
	d.record(func(set *ChangeSet) { set.AddChanged(path) })
}

// Deleted records a removed path.
func (d *Debouncer) Deleted(path string) {
	d.record(func(set *ChangeSet) { set.AddDeleted(path) })
}

// Renamed records a rename whose both sides are known.
func (d *Debouncer) Renamed(oldPath, newPath string) {
	d.record(func(set *ChangeSet) { set.AddRenamed(oldPath, newPath) })
}

// RenameFrom records the old side of a native rename. If the next event is a
// create, the two are paired into a rename; otherwise the old path counts as deleted.
//
// A moved directory is reported twice: once by its parent and once by its own
// watch. When oldPath is already the origin of a rename paired in this window
// the repeat is dropped and the rename target is returned.
func (d *Debouncer) RenameFrom(oldPath string) (renamedTo string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ""
	}
	d.settleRename()
	if target, ok := d.pending.Renamed[oldPath]; ok {
		if _, recreated := d.pending.Created[oldPath]; !recreated {
			return target
		}
	}
	d.renameFrom = oldPath
	d.restartTimer()
	return ""
}

// record applies one mutation to the pending set and restarts the timer.
// Only a create may complete a pending rename, so anything else settles it first.
func (d *Debouncer) record(apply func(set *ChangeSet)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.settleRename()
	apply(d.pending)
	d.restartTimer()
}

func (d *Debouncer) restartTimer() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

// settleRename turns an unpaired rename into a delete. Caller holds d.mu.
func (d *Debouncer) settleRename() {
	if d.renameFrom == "" {
		return
	}
	d.pending.AddDeleted(d.renameFrom)
	d.renameFrom = ""
}

// fire swaps out the pending set and hands it to the flush function outside the lock.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.settleRename()
	batch := d.pending
	d.pending = NewChangeSet()
	d.timer = nil
	d.mu.Unlock()

	if batch.IsEmpty() || d.flush == nil {
		return
	}
	d.flush(batch)
}

// Flush fires immediately instead of waiting for the quiet period.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop cancels the pending timer and discards everything accumulated.
// It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = NewChangeSet()
	d.renameFrom = ""
}
