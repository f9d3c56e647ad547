package watcher

import (
	"reflect"
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func newTestDebouncer() (*Debouncer, <-chan *ChangeSet) {
	batches := make(chan *ChangeSet, 16)
	d := NewDebouncer(testInterval, func(batch *ChangeSet) { batches <- batch })
	return d, batches
}

func receiveBatch(t *testing.T, batches <-chan *ChangeSet, timeout time.Duration) *ChangeSet {
	t.Helper()
	select {
	case batch := <-batches:
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func expectNoBatch(t *testing.T, batches <-chan *ChangeSet, wait time.Duration) {
	t.Helper()
	select {
	case batch := <-batches:
		t.Fatalf("expected no batch, got %+v", batch)
	case <-time.After(wait):
	}
}

func Test_Debouncer_SingleEvent(t *testing.T) {
	d, batches := newTestDebouncer()

	d.Changed("/p/main.py")

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if got := batch.ChangedPaths(); !reflect.DeepEqual(got, []string{"/p/main.py"}) {
		t.Errorf("expected [/p/main.py], got %v", got)
	}
}

func Test_Debouncer_RepeatedChangesCoalesce(t *testing.T) {
	d, batches := newTestDebouncer()

	for i := 0; i < 20; i++ {
		d.Changed("/p/main.py")
	}

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if len(batch.Changed) != 1 {
		t.Fatalf("expected 1 changed path, got %d", len(batch.Changed))
	}
	expectNoBatch(t, batches, 2*testInterval)
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d, batches := newTestDebouncer()

	d.Changed("/p/main.py")

	// Wait less than the interval, then add another event; the timer restarts
	time.Sleep(testInterval / 2)
	d.Created("/p/util.py")

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if len(batch.Changed) != 1 || len(batch.Created) != 1 {
		t.Errorf("expected both events in a single batch, got %+v", batch)
	}
}

func Test_Debouncer_RenamePairsWithCreate(t *testing.T) {
	d, batches := newTestDebouncer()

	d.RenameFrom("/p/a.txt")
	d.Created("/p/b.txt")

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if batch.Renamed["/p/a.txt"] != "/p/b.txt" {
		t.Errorf("expected a.txt -> b.txt, got %v", batch.Renamed)
	}
	if len(batch.Created) != 0 || len(batch.Deleted) != 0 {
		t.Errorf("expected no create/delete, got %+v", batch)
	}
}

func Test_Debouncer_UnpairedRenameIsDelete(t *testing.T) {
	d, batches := newTestDebouncer()

	d.RenameFrom("/p/moved-away.txt")

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if got := batch.DeletedPaths(); !reflect.DeepEqual(got, []string{"/p/moved-away.txt"}) {
		t.Errorf("expected unpaired rename to be a delete, got %v", got)
	}
}

func Test_Debouncer_RenameSettledByOtherEvent(t *testing.T) {
	d, batches := newTestDebouncer()

	d.RenameFrom("/p/old.txt")
	d.Changed("/p/other.txt")
	d.Created("/p/new.txt")

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if len(batch.Renamed) != 0 {
		t.Errorf("expected no rename pairing across other events, got %v", batch.Renamed)
	}
	if _, ok := batch.Deleted["/p/old.txt"]; !ok {
		t.Error("expected old.txt deleted")
	}
	if _, ok := batch.Created["/p/new.txt"]; !ok {
		t.Error("expected new.txt created")
	}
}

func Test_Debouncer_StopDiscardsPending(t *testing.T) {
	d, batches := newTestDebouncer()

	d.Changed("/p/main.py")
	d.Stop()
	d.Stop()

	expectNoBatch(t, batches, 3*testInterval)

	d.Changed("/p/after.py")
	expectNoBatch(t, batches, 3*testInterval)
}

func Test_Debouncer_Flush(t *testing.T) {
	d, batches := newTestDebouncer()

	d.Deleted("/p/gone.txt")
	d.Flush()

	select {
	case batch := <-batches:
		if _, ok := batch.Deleted["/p/gone.txt"]; !ok {
			t.Errorf("expected gone.txt deleted, got %+v", batch)
		}
	default:
		t.Fatal("expected Flush to deliver synchronously")
	}
}

func Test_Debouncer_DuplicateRenameKeepsIdentity(t *testing.T) {
	d, batches := newTestDebouncer()

	d.RenameFrom("/p/docs")
	d.Created("/p/notes")
	if target := d.RenameFrom("/p/docs"); target != "/p/notes" {
		t.Errorf("expected repeated rename to report /p/notes, got %q", target)
	}
	d.Flush()

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if !reflect.DeepEqual(batch.Renamed, map[string]string{"/p/docs": "/p/notes"}) {
		t.Errorf("expected only docs -> notes, got %v", batch.Renamed)
	}
	if len(batch.Deleted) != 0 || len(batch.Created) != 0 {
		t.Errorf("expected no create/delete, got %+v", batch)
	}
	if got := batch.ChangedPaths(); !reflect.DeepEqual(got, []string{"/p/notes"}) {
		t.Errorf("expected changed [/p/notes], got %v", got)
	}
}

func Test_Debouncer_RenameOfRecreatedOriginIsNew(t *testing.T) {
	d, batches := newTestDebouncer()

	d.RenameFrom("/p/a.txt")
	d.Created("/p/b.txt")
	d.Created("/p/a.txt")
	if target := d.RenameFrom("/p/a.txt"); target != "" {
		t.Errorf("expected a fresh rename, got target %q", target)
	}
	d.Flush()

	batch := receiveBatch(t, batches, 500*time.Millisecond)
	if batch.Renamed["/p/a.txt"] != "/p/b.txt" {
		t.Errorf("expected a.txt -> b.txt kept, got %v", batch.Renamed)
	}
}
