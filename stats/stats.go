// Package stats provides event recording for cache diagnostics.
//
// The cache reports what it is doing through the Recorder interface: one
// Record call per lifecycle event (hit, miss, refresh, failure, mutation,
// invalidation). NopRecorder is the default so callers that do not care
// about diagnostics pay nothing; Collector aggregates events into per-domain
// counters without ever blocking the caller.
package stats

// Kind names a cache lifecycle event.
type Kind string

const (
	// Hit is recorded when cached items are served without a network call.
	Hit Kind = "hit"
	// Miss is recorded when an empty or expired slot forces a synchronous fetch.
	Miss Kind = "miss"
	// SyncRefresh is recorded after a successful synchronous fetch-and-store.
	SyncRefresh Kind = "sync_refresh"
	// BackgroundRefresh is recorded when a background refresh is scheduled.
	BackgroundRefresh Kind = "background_refresh"
	// RefreshFailure is recorded when any fetch fails, synchronous or not.
	RefreshFailure Kind = "refresh_failure"
	// Mutation is recorded for every optimistic insert, update, or removal.
	Mutation Kind = "mutation"
	// Invalidate is recorded when a slot is explicitly cleared.
	Invalidate Kind = "invalidate"
)

// Event is one cache lifecycle event.
type Event struct {
	// Domain is the name of the domain the event belongs to.
	Domain string
	// Kind is the event kind.
	Kind Kind
	// Err carries the cause for RefreshFailure events, nil otherwise.
	Err error
}

// Recorder receives cache lifecycle events. Implementations must be safe
// for concurrent use and must not block: Record runs on the cache's read
// path.
type Recorder interface {
	Record(ev Event)
}

// NopRecorder discards all events. It keeps the cache free of nil checks
// when no diagnostics are wanted.
type NopRecorder struct{}

// Record implements Recorder and intentionally does nothing.
func (NopRecorder) Record(Event) {}
