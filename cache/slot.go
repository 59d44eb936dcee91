package cache

import (
	"slices"
	"time"
)

// slot is the single-domain holder of cached items plus the time of the
// most recent successful fetch. It is pure data and logic; the owning
// Domain serializes all access through its mutex.
type slot[T any] struct {
	items []T
	// lastFetch is the time of the most recent successful fetch. The zero
	// value is the "never fetched" sentinel; optimistic mutations and
	// invalidation never stamp it.
	lastFetch time.Time
}

// age returns how long ago the slot was last successfully written. It
// returns 0 for a never-fetched slot; callers must check lastFetch (via
// state) before trusting the age.
func (s *slot[T]) age(now time.Time) time.Duration {
	if s.lastFetch.IsZero() {
		return 0
	}
	return now.Sub(s.lastFetch)
}

// state classifies the slot at the given instant.
func (s *slot[T]) state(now time.Time, freshWindow, backgroundThreshold time.Duration) State {
	return classify(s.lastFetch, s.age(now), freshWindow, backgroundThreshold)
}

// write replaces the items wholesale and stamps the fetch time. Only
// successful fetches go through here.
func (s *slot[T]) write(items []T, now time.Time) {
	s.items = slices.Clone(items)
	s.lastFetch = now
}

// invalidate clears the slot back to the never-fetched state.
func (s *slot[T]) invalidate() {
	s.items = nil
	s.lastFetch = time.Time{}
}

// insert appends an item optimistically, preserving insertion order.
func (s *slot[T]) insert(item T) {
	s.items = append(s.items, item)
}

// update replaces the item with the same identity key in place. It is a
// no-op when no item matches.
func (s *slot[T]) update(item T, keyOf KeyFunc[T]) {
	key := keyOf(item)
	for i := range s.items {
		if keyOf(s.items[i]) == key {
			s.items[i] = item
			return
		}
	}
}

// upsert replaces the item with the same identity key, or appends it when
// absent.
func (s *slot[T]) upsert(item T, keyOf KeyFunc[T]) {
	key := keyOf(item)
	for i := range s.items {
		if keyOf(s.items[i]) == key {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// remove deletes the item with the given identity key, if present.
func (s *slot[T]) remove(key string, keyOf KeyFunc[T]) {
	for i := range s.items {
		if keyOf(s.items[i]) == key {
			s.items = slices.Delete(s.items, i, i+1)
			return
		}
	}
}

// snapshot returns a defensive copy of the current items. Later optimistic
// mutations shift the backing slice, so callers never get an alias.
func (s *slot[T]) snapshot() []T {
	return slices.Clone(s.items)
}
