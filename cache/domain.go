package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/matterdesk/cachekit/logger"
	"github.com/matterdesk/cachekit/routine"
	"github.com/matterdesk/cachekit/stats"
)

// Domain is the cache for one remote collection. It owns the domain's slot
// and serializes every slot access through its own mutex, so interleaved
// reads and mutations are linearizable per domain. The network call itself
// runs outside the mutex: only the freshness pre-check and the final slot
// write hold it.
//
// A Domain is created by Register and is valid for the life of its
// Coordinator.
type Domain[T any] struct {
	name  string
	fetch FetchFunc[T]
	keyOf KeyFunc[T]

	freshWindow         time.Duration
	backgroundThreshold time.Duration
	coalesce            bool

	log logger.Logger
	rec stats.Recorder
	now func() time.Time

	sf singleflight.Group

	mu   sync.Mutex
	slot slot[T]
}

// Name returns the domain name the cache was registered under.
func (d *Domain[T]) Name() string {
	return d.name
}

// Get returns the domain's items, deciding per call between two paths:
//
//  1. The slot was fetched less than FreshWindow ago: the cached items are
//     returned immediately with no network activity. If they are older than
//     BackgroundThreshold a background refresh is scheduled first, without
//     being waited on; its result is not reflected in the returned items.
//  2. The slot is empty, expired, or WithForceRefresh was passed: a
//     synchronous fetch runs before returning. On success the slot is
//     replaced wholesale and the new items are returned; on failure the
//     slot is left untouched and a *RefreshError is returned.
//
// The returned slice is a copy as far as the cache is concerned; element
// contents must still be treated as read-only for reference types.
func (d *Domain[T]) Get(ctx context.Context, opts ...GetOption) ([]T, error) {
	o := defaultGetOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !o.forceRefresh {
		d.mu.Lock()
		now := d.now()
		state := d.slot.state(now, d.freshWindow, d.backgroundThreshold)
		if state.servable() {
			items := d.slot.snapshot()
			age := d.slot.age(now)
			d.mu.Unlock()

			d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Hit})
			if o.allowBackground && state == StateStaleServable {
				d.refreshInBackground(ctx, age)
			}
			return items, nil
		}
		d.mu.Unlock()
		d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Miss})
	}

	return d.refreshSync(ctx)
}

// Refresh forces a synchronous fetch and returns the new items. It is
// shorthand for Get with WithForceRefresh.
func (d *Domain[T]) Refresh(ctx context.Context) ([]T, error) {
	return d.Get(ctx, WithForceRefresh())
}

// Insert applies an optimistic insert: the item becomes visible to the next
// Get immediately, with no network interaction and no failure mode. The
// slot's fetch time is not touched, so an insert cannot keep an expired
// slot alive; the next synchronous refresh replaces the slot wholesale and
// the optimistic item is lost unless the server already knows it.
func (d *Domain[T]) Insert(item T) {
	d.mu.Lock()
	d.slot.insert(item)
	d.mu.Unlock()
	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Mutation})
}

// Update applies an optimistic in-place replacement of the item with the
// same identity key. It is a no-op when no cached item matches.
func (d *Domain[T]) Update(item T) {
	d.mu.Lock()
	d.slot.update(item, d.keyOf)
	d.mu.Unlock()
	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Mutation})
}

// Remove applies an optimistic removal of the item with the given identity
// key, if present.
func (d *Domain[T]) Remove(key string) {
	d.mu.Lock()
	d.slot.remove(key, d.keyOf)
	d.mu.Unlock()
	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Mutation})
}

// Invalidate clears the slot back to the never-fetched state; the next Get
// always performs a synchronous fetch. A background refresh already in
// flight is not cancelled and writes its result back on completion, which
// can repopulate the slot after the invalidation.
func (d *Domain[T]) Invalidate() {
	d.mu.Lock()
	d.slot.invalidate()
	d.mu.Unlock()
	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.Invalidate})
	d.log.Debug("domain invalidated", zap.String("domain", d.name))
}

// Stats returns the diagnostic snapshot for this domain.
func (d *Domain[T]) Stats() DomainStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	state := d.slot.state(now, d.freshWindow, d.backgroundThreshold)
	return DomainStats{
		Count: len(d.slot.items),
		Age:   d.slot.age(now),
		Fresh: state.servable(),
		State: state,
	}
}

// invalidate and snapshot satisfy the coordinator's untyped handle.
func (d *Domain[T]) invalidate()           { d.Invalidate() }
func (d *Domain[T]) snapshot() DomainStats { return d.Stats() }

// refreshSync is the blocking fetch-and-store path shared by cache misses,
// expired slots, and forced refreshes.
func (d *Domain[T]) refreshSync(ctx context.Context) ([]T, error) {
	if d.coalesce {
		v, err, _ := d.sf.Do(d.name, func() (any, error) {
			return d.fetchAndStore(ctx)
		})
		if err != nil {
			return nil, err
		}
		return v.([]T), nil
	}
	return d.fetchAndStore(ctx)
}

func (d *Domain[T]) fetchAndStore(ctx context.Context) ([]T, error) {
	items, err := d.fetch(ctx)
	if err != nil {
		d.rec.Record(stats.Event{Domain: d.name, Kind: stats.RefreshFailure, Err: err})
		d.log.Warn("synchronous refresh failed",
			zap.String("domain", d.name),
			zap.String("kind", errKind(err)),
			zap.Error(err),
		)
		return nil, &RefreshError{Domain: d.name, Err: err}
	}

	d.mu.Lock()
	d.slot.write(items, d.now())
	d.mu.Unlock()

	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.SyncRefresh})
	d.log.Debug("synchronous refresh completed",
		zap.String("domain", d.name),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// refreshInBackground fires a detached refresh for the domain. The task has
// no join handle and cannot be cancelled once spawned: it is decoupled from
// the caller's context, runs the fetch without holding the domain mutex,
// and re-acquires it only for the final write-back. Failures are logged and
// discarded; no caller ever observes them.
func (d *Domain[T]) refreshInBackground(ctx context.Context, age time.Duration) {
	d.rec.Record(stats.Event{Domain: d.name, Kind: stats.BackgroundRefresh})
	d.log.Debug("scheduling background refresh",
		zap.String("domain", d.name),
		zap.Duration("age", age),
	)

	bctx := context.WithoutCancel(ctx)
	routine.GoNamed(d.log, d.name+"-refresh", func() {
		items, err := d.fetch(bctx)
		if err != nil {
			d.rec.Record(stats.Event{Domain: d.name, Kind: stats.RefreshFailure, Err: err})
			d.log.Warn("background refresh failed",
				zap.String("domain", d.name),
				zap.String("kind", errKind(err)),
				zap.Error(err),
			)
			return
		}

		d.mu.Lock()
		d.slot.write(items, d.now())
		d.mu.Unlock()

		d.log.Debug("background refresh completed",
			zap.String("domain", d.name),
			zap.Int("count", len(items)),
		)
	})
}
