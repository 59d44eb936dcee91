// Package cache provides a stale-while-revalidate cache coordinator for
// remote collections.
//
// The cache package follows kit conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Configuration with validation and defaults
// - Structured error handling
//
// A Coordinator owns one Domain per remote collection (tasks, notes,
// matters, ...). Each Domain keeps the last fetched items together with the
// time of the last successful fetch and decides on every Get whether the
// cached items are fresh enough to serve, whether a non-blocking background
// refresh should be scheduled, or whether the caller must wait for a
// synchronous fetch. Local optimistic mutations apply instantly without any
// network activity.
package cache

import "context"

// FetchFunc loads the full collection for a domain from the remote source.
// It should return the new items or an error. The context should be
// respected for cancellation and timeout; the cache itself never imposes a
// timeout of its own.
//
// Implementations may classify failures by wrapping ErrNetwork or
// ErrDecoding. The coordinator treats all failures identically and uses the
// classification only for logging.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// FetchOneFunc loads a single optional value for a singleton domain.
// The boolean reports whether the remote source currently has a value.
type FetchOneFunc[T any] func(ctx context.Context) (T, bool, error)

// KeyFunc returns the stable identity key of an item. Optimistic Update and
// Remove match items by this key.
type KeyFunc[T any] func(item T) string

// GetOption customizes a single Get call.
type GetOption func(*getOptions)

type getOptions struct {
	forceRefresh    bool
	allowBackground bool
}

func defaultGetOptions() getOptions {
	return getOptions{allowBackground: true}
}

// WithForceRefresh makes Get skip the cached items and always perform a
// synchronous fetch.
func WithForceRefresh() GetOption {
	return func(o *getOptions) { o.forceRefresh = true }
}

// WithoutBackgroundRefresh makes Get serve cached items without ever
// scheduling a background refresh, regardless of their age.
func WithoutBackgroundRefresh() GetOption {
	return func(o *getOptions) { o.allowBackground = false }
}
