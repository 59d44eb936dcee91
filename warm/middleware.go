package warm

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/matterdesk/cachekit/logger"
)

// Middleware is a function that wraps a Job with additional behavior, such
// as logging, recovery, or metrics.
type Middleware func(Job) Job

// applyMiddlewares applies multiple middlewares to a job, from last to
// first, so applyMiddlewares(job, mw1, mw2) yields mw1(mw2(job)).
func applyMiddlewares(j Job, mws ...Middleware) Job {
	for i := len(mws) - 1; i >= 0; i-- {
		j = mws[i](j)
	}
	return j
}

// recoveryMiddleware wraps a job with panic recovery so a panicking refresh
// cannot crash the scheduler. The panic is converted to an error.
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Job) Job {
		return &wrappedJob{
			name: next.Name(),
			exec: func(ctx context.Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						log.Error("warm job panicked",
							zap.String("job", next.Name()),
							zap.Any("panic", r),
							zap.String("stack", string(debug.Stack())),
						)
						err = fmt.Errorf("panic recovered: %v", r)
					}
				}()
				return next.Run(ctx)
			},
		}
	}
}

// loggingMiddleware wraps a job with start/finish logging including the
// execution duration and any error.
func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Job) Job {
		return &wrappedJob{
			name: next.Name(),
			exec: func(ctx context.Context) error {
				start := time.Now()
				log.Debug("warm job started", zap.String("job", next.Name()))

				err := next.Run(ctx)

				duration := time.Since(start)
				if err != nil {
					log.Error("warm job failed",
						zap.String("job", next.Name()),
						zap.Duration("duration", duration),
						zap.Error(err),
					)
				} else {
					log.Debug("warm job completed",
						zap.String("job", next.Name()),
						zap.Duration("duration", duration),
					)
				}
				return err
			},
		}
	}
}

// wrappedJob is the internal helper used to wrap jobs with middleware.
type wrappedJob struct {
	name string
	exec func(ctx context.Context) error
}

// Name returns the name of the wrapped job.
func (w *wrappedJob) Name() string {
	return w.name
}

// Run executes the wrapped job function.
func (w *wrappedJob) Run(ctx context.Context) error {
	return w.exec(ctx)
}
