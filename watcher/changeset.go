package watcher

import "sort"

// ChangeSet accumulates the changes seen during one debounce window.
// All paths are absolute. Renamed maps old path to new path.
type ChangeSet struct {
	Created map[string]struct{}
	Changed map[string]struct{}
	Deleted map[string]struct{}
	Renamed map[string]string
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Created: make(map[string]struct{}),
		Changed: make(map[string]struct{}),
		Deleted: make(map[string]struct{}),
		Renamed: make(map[string]string),
	}
}

// IsEmpty reports whether nothing was recorded.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.Created) == 0 && len(c.Changed) == 0 && len(c.Deleted) == 0 && len(c.Renamed) == 0
}

// AddCreated records a new path. A path deleted earlier in the window has
// been replaced, which is reported as a content change.
func (c *ChangeSet) AddCreated(path string) {
	if _, deleted := c.Deleted[path]; deleted {
		delete(c.Deleted, path)
		c.Changed[path] = struct{}{}
		return
	}
	c.Created[path] = struct{}{}
}

// AddChanged records a content change. Changes to a path created in the same
// window are already covered by the create.
func (c *ChangeSet) AddChanged(path string) {
	if _, created := c.Created[path]; created {
		return
	}
	c.Changed[path] = struct{}{}
}

// AddDeleted records a removal. A path created and deleted within the window
// was transient and leaves no trace.
func (c *ChangeSet) AddDeleted(path string) {
	delete(c.Changed, path)
	if _, created := c.Created[path]; created {
		delete(c.Created, path)
		return
	}
	for oldPath, newPath := range c.Renamed {
		if newPath == path {
			delete(c.Renamed, oldPath)
			c.Deleted[oldPath] = struct{}{}
			return
		}
	}
	c.Deleted[path] = struct{}{}
}

// AddRenamed records a rename from oldPath to newPath.
func (c *ChangeSet) AddRenamed(oldPath, newPath string) {
	if oldPath == newPath {
		c.AddChanged(newPath)
		return
	}
	delete(c.Changed, oldPath)
	delete(c.Deleted, newPath)

	if _, created := c.Created[oldPath]; created {
		delete(c.Created, oldPath)
		c.Created[newPath] = struct{}{}
		return
	}

	// a -> b, then b -> c collapses to a -> c
	for origin, target := range c.Renamed {
		if target == oldPath {
			if origin == newPath {
				delete(c.Renamed, origin)
				c.Changed[newPath] = struct{}{}
			} else {
				c.Renamed[origin] = newPath
			}
			return
		}
	}
	c.Renamed[oldPath] = newPath
}

// ChangedPaths returns the changed paths in sorted order. Rename targets are
// included: a rename is often the last step of an application's save.
func (c *ChangeSet) ChangedPaths() []string {
	set := make(map[string]struct{}, len(c.Changed)+len(c.Renamed))
	for path := range c.Changed {
		set[path] = struct{}{}
	}
	for _, newPath := range c.Renamed {
		set[newPath] = struct{}{}
	}
	return sortedKeys(set)
}

// CreatedPaths returns the created paths in sorted order.
func (c *ChangeSet) CreatedPaths() []string { return sortedKeys(c.Created) }

// DeletedPaths returns the deleted paths in sorted order.
func (c *ChangeSet) DeletedPaths() []string { return sortedKeys(c.Deleted) }

// RenamedPaths returns the old paths of all renames in sorted order.
func (c *ChangeSet) RenamedPaths() []string {
	paths := make([]string, 0, len(c.Renamed))
	for oldPath := range c.Renamed {
		paths = append(paths, oldPath)
	}
	sort.Strings(paths)
	return paths
}

// AffectsResourceSet reports whether the set of resources changed, as opposed
// to only file contents.
func (c *ChangeSet) AffectsResourceSet() bool {
	return len(c.Created) > 0 || len(c.Deleted) > 0 || len(c.Renamed) > 0
}

func sortedKeys(set map[string]struct{}) []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
