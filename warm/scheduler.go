package warm

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/matterdesk/cachekit/logger"
)

// scheduleJob runs the jobs of one schedule sequentially.
// If any job fails, the remaining jobs are skipped for that tick.
type scheduleJob struct {
	name   string
	jobs   []Job
	logger logger.Logger
}

// Run executes all jobs of the schedule sequentially.
func (j *scheduleJob) Run() {
	ctx := context.Background()

	j.logger.Debug("warm schedule started", zap.String("schedule", j.name))

	for _, job := range j.jobs {
		if err := job.Run(ctx); err != nil {
			j.logger.Error("warm schedule aborted due to job failure",
				zap.String("schedule", j.name),
				zap.String("job", job.Name()),
				zap.Error(err),
			)
			return
		}
	}

	j.logger.Debug("warm schedule completed", zap.String("schedule", j.name))
}

// scheduler is the default implementation of the Warmer interface.
type scheduler struct {
	cron        *cron.Cron
	middlewares []Middleware
	logger      logger.Logger
}

func newScheduler(log logger.Logger, mws ...Middleware) *scheduler {
	return &scheduler{
		cron:        cron.New(cron.WithSeconds()),
		middlewares: mws,
		logger:      log,
	}
}

// Start begins the scheduler.
func (s *scheduler) Start() {
	s.cron.Start()
}

// Close stops the scheduler and waits for running jobs to complete.
func (s *scheduler) Close() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Add schedules jobs under the given name according to the cron spec.
func (s *scheduler) Add(name, spec string, jobs ...Job) error {
	if len(jobs) == 0 {
		return ErrNoJobs
	}

	wrapped := make([]Job, len(jobs))
	for i, job := range jobs {
		// qualify the job name with its schedule for logging
		wrapJob := &wrappedJob{
			name: fmt.Sprintf("%s:%s", name, job.Name()),
			exec: job.Run,
		}
		wrapped[i] = applyMiddlewares(wrapJob, s.middlewares...)
	}

	job := &scheduleJob{
		name:   name,
		jobs:   wrapped,
		logger: s.logger,
	}

	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("warm: failed to add schedule %s with spec %s: %w", name, spec, err)
	}

	s.logger.Info("warm schedule added",
		zap.String("schedule", name),
		zap.String("spec", spec),
		zap.Int("jobs", len(jobs)),
	)

	return nil
}
