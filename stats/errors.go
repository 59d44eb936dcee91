package stats

import "fmt"

// ErrCollectorClosed is returned when starting a collector that has been closed.
var ErrCollectorClosed = fmt.Errorf("stats: collector is closed")

// ErrInvalidInitialCapacity returns an error for an invalid channel capacity.
func ErrInvalidInitialCapacity(capacity int) error {
	return fmt.Errorf("stats: invalid initial capacity: %d (must be >= 1)", capacity)
}
