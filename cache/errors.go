package cache

import (
	"errors"
	"fmt"
	"time"
)

// Fetch error kinds. FetchFunc implementations may wrap one of these so
// refresh failures are classified in logs and statistics. The coordinator
// never branches on the kind.
var (
	// ErrNetwork marks a transport-level fetch failure.
	ErrNetwork = fmt.Errorf("cache: network error")
	// ErrDecoding marks a malformed remote response.
	ErrDecoding = fmt.Errorf("cache: decoding error")
)

// RefreshError wraps every fetch failure propagated to a caller. The
// failing domain is carried for diagnostics; use errors.Is/As to inspect
// the underlying cause.
type RefreshError struct {
	Domain string
	Err    error
}

// Error implements the error interface.
func (e *RefreshError) Error() string {
	return fmt.Sprintf("cache: refresh %s: %v", e.Domain, e.Err)
}

// Unwrap returns the underlying fetch error.
func (e *RefreshError) Unwrap() error {
	return e.Err
}

// errKind names the classification of a fetch error for log fields.
func errKind(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrDecoding):
		return "decoding"
	default:
		return "unknown"
	}
}

// ErrDuplicateDomain is returned when registering a domain name twice on
// the same coordinator.
func ErrDuplicateDomain(name string) error {
	return fmt.Errorf("cache: domain %q already registered", name)
}

// ErrUnknownDomain is returned when addressing a domain name that was never
// registered.
func ErrUnknownDomain(name string) error {
	return fmt.Errorf("cache: unknown domain %q", name)
}

// ErrInvalidDomainName is returned when registering a domain with an empty name.
func ErrInvalidDomainName(name string) error {
	return fmt.Errorf("cache: invalid domain name: %q (must be non-empty)", name)
}

// ErrNilFetch is returned when registering a domain without a fetch function.
func ErrNilFetch(name string) error {
	return fmt.Errorf("cache: domain %q: fetch function must not be nil", name)
}

// ErrInvalidFreshWindow returns an error for an invalid fresh window.
func ErrInvalidFreshWindow(window time.Duration) error {
	return fmt.Errorf("cache: invalid fresh window: %v (must be > 0)", window)
}

// ErrInvalidBackgroundThreshold returns an error for an invalid background threshold.
func ErrInvalidBackgroundThreshold(threshold time.Duration) error {
	return fmt.Errorf("cache: invalid background threshold: %v (must be > 0)", threshold)
}

// ErrThresholdAboveWindow returns an error when the background threshold
// exceeds the fresh window.
func ErrThresholdAboveWindow(threshold, window time.Duration) error {
	return fmt.Errorf("cache: background threshold %v exceeds fresh window %v", threshold, window)
}
