package warm

import "fmt"

var (
	// ErrNoJobs is returned when adding a schedule with no jobs.
	ErrNoJobs = fmt.Errorf("warm: no jobs provided")

	// ErrInvalidSpec is returned when a cron spec string is invalid.
	ErrInvalidSpec = fmt.Errorf("warm: invalid cron spec")
)
