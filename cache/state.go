package cache

import "time"

// State classifies a slot by the age of its last successful fetch.
type State int

const (
	// StateEmpty means the slot has never been populated by a successful
	// fetch (or was explicitly invalidated). Optimistic mutations may have
	// placed items in an empty slot; it still requires a synchronous fetch.
	StateEmpty State = iota
	// StateFresh means the last fetch is recent enough to serve without any
	// network activity.
	StateFresh
	// StateStaleServable means the cached items are still servable but old
	// enough that a background refresh should be scheduled opportunistically.
	StateStaleServable
	// StateExpired means the cached items are too old to serve; the next Get
	// must perform a synchronous fetch.
	StateExpired
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	case StateStaleServable:
		return "stale_servable"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// servable reports whether a slot in this state may be returned to a caller
// without a synchronous fetch.
func (s State) servable() bool {
	return s == StateFresh || s == StateStaleServable
}

// classify maps a slot age onto the state machine. lastFetch carries the
// zero value when the slot has never been successfully populated.
func classify(lastFetch time.Time, age, freshWindow, backgroundThreshold time.Duration) State {
	switch {
	case lastFetch.IsZero():
		return StateEmpty
	case age >= freshWindow:
		return StateExpired
	case age >= backgroundThreshold:
		return StateStaleServable
	default:
		return StateFresh
	}
}
