// Package warm schedules periodic cache refreshes.
//
// Background refreshes inside the cache package are opportunistic: they
// only run when a caller reads a stale domain. A client that wants its
// domains re-fetched on a fixed schedule regardless of read traffic (warm
// the task list every five minutes, the matter list every hour) registers
// refresh jobs on a Warmer. Jobs run with panic recovery and logging
// middleware applied.
package warm

import (
	"context"

	"github.com/matterdesk/cachekit/logger"
)

// Job is one schedulable refresh. Each job must have a unique name and
// implement the Run method; a failing Run aborts the remaining jobs of the
// same schedule for that tick.
type Job interface {
	// Name returns the identifier for this job, used in logs.
	Name() string
	// Run executes the refresh with the given context.
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
func JobFunc(name string, fn func(ctx context.Context) error) Job {
	return &wrappedJob{name: name, exec: fn}
}

// Warmer is the interface for managing scheduled refreshes.
type Warmer interface {
	// Start begins the scheduler.
	Start()
	// Close stops the scheduler and waits for running jobs to complete.
	Close()
	// Add schedules jobs under the given name. The spec follows the
	// standard cron format with support for seconds (6 fields). Jobs run
	// sequentially; if one fails, the rest of the schedule's jobs are
	// skipped for that tick.
	Add(name string, spec string, jobs ...Job) error
}

// New creates a Warmer with the given logger and middlewares. Middlewares
// are applied to all jobs in the order they are provided, after the
// built-in recovery and logging middlewares.
func New(log logger.Logger, mws ...Middleware) Warmer {
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newScheduler(log, append(defaultMws, mws...)...)
}
