package cache

import (
	"context"

	"github.com/matterdesk/cachekit/stats"
)

// Singleton is the cache for a domain holding at most one value instead of
// a collection. It wraps a Domain whose slot carries zero or one item and
// exposes value-shaped accessors.
type Singleton[T any] struct {
	d *Domain[T]
}

// Name returns the domain name the cache was registered under.
func (s *Singleton[T]) Name() string {
	return s.d.Name()
}

// Get returns the cached value under the same freshness rules as
// Domain.Get. The boolean reports whether a value is present; it is false
// both when the remote source has none and when a fetch was required and
// returned none.
func (s *Singleton[T]) Get(ctx context.Context, opts ...GetOption) (T, bool, error) {
	items, err := s.d.Get(ctx, opts...)
	return first(items, err)
}

// Refresh forces a synchronous fetch and returns the new value.
func (s *Singleton[T]) Refresh(ctx context.Context) (T, bool, error) {
	items, err := s.d.Refresh(ctx)
	return first(items, err)
}

// Put optimistically replaces the cached value without touching the fetch
// time. Like every optimistic mutation it is lost to the next wholesale
// refresh.
func (s *Singleton[T]) Put(v T) {
	s.d.mu.Lock()
	s.d.slot.items = []T{v}
	s.d.mu.Unlock()
	s.d.rec.Record(stats.Event{Domain: s.d.name, Kind: stats.Mutation})
}

// Clear optimistically drops the cached value, leaving the fetch time as
// is.
func (s *Singleton[T]) Clear() {
	s.d.mu.Lock()
	s.d.slot.items = nil
	s.d.mu.Unlock()
	s.d.rec.Record(stats.Event{Domain: s.d.name, Kind: stats.Mutation})
}

// Invalidate clears the slot back to the never-fetched state.
func (s *Singleton[T]) Invalidate() {
	s.d.Invalidate()
}

// Stats returns the diagnostic snapshot for this domain.
func (s *Singleton[T]) Stats() DomainStats {
	return s.d.Stats()
}

func first[T any](items []T, err error) (T, bool, error) {
	var zero T
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}
	return items[0], true, nil
}
