package monitor

import "github.com/lexandro/resourcewatch/resource"

// Kind identifies the type of a resource change notification.
type Kind int

const (
	// Created indicates a new file or folder.
	Created Kind = iota
	// Changed indicates modified contents.
	Changed
	// Deleted indicates a removed file or folder.
	Deleted
	// Renamed indicates a move from OldKey to Key.
	Renamed
	// ResourcesChanged asks consumers to rescan the resource set.
	// It carries no key and is sent at most once per debounce cycle.
	ResourcesChanged
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case ResourcesChanged:
		return "resources_changed"
	default:
		return "unknown"
	}
}

// Event is one resource change notification.
type Event struct {
	Kind   Kind
	Key    resource.Key // the affected resource; the new key for renames
	OldKey resource.Key // only set for renames
}

// Publisher receives monitor events. *messaging.Hub[Event] satisfies it.
type Publisher interface {
	Publish(event Event)
}
