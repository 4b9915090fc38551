package scheduler

import (
	"context"
	"fmt"
	"time"

	"library-service-be/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Job struct {
	Name string
	// Spec is a five-field cron expression or a descriptor such as "@every 1m".
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs jobs on their cron specs. Every run claims a lock keyed by
// the job and its scheduled tick, so replicas firing the same tick run it once.
type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration
	logger  logger.ILogger
}

func New(locker Locker, lockTTL time.Duration, log logger.ILogger) *Scheduler {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		locker:  locker,
		lockTTL: lockTTL,
		logger:  log,
	}
}

func (s *Scheduler) Add(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %s has no run function", job.Name)
	}
	schedule, err := cron.ParseStandard(job.Spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", job.Spec, job.Name, err)
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.RunOnce(context.Background(), job, TickOf(schedule, time.Now().UTC()))
	}))
	s.logger.Info("SCHEDULER", "Job registered", map[string]interface{}{
		"job":  job.Name,
		"spec": job.Spec,
	})
	return nil
}

// RunOnce executes job for the given tick unless another run already claimed
// it. The claim is left to expire with the lock TTL. It reports whether the job ran.
func (s *Scheduler) RunOnce(ctx context.Context, job Job, tick time.Time) bool {
	_, acquired, err := s.locker.Acquire(ctx, lockKey(job.Name, tick), s.lockTTL)
	switch {
	case err != nil:
		// An unreachable lock store must not stop the sweeps.
		s.logger.Warn("SCHEDULER", "Lock unavailable, running unlocked", map[string]interface{}{
			"job":   job.Name,
			"error": err.Error(),
		})
	case !acquired:
		s.logger.Debug("SCHEDULER", "Tick already claimed elsewhere", map[string]interface{}{
			"job":  job.Name,
			"tick": tick.UTC().Format(time.RFC3339),
		})
		return false
	}

	started := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("SCHEDULER", "Job failed", map[string]interface{}{
			"job":   job.Name,
			"error": err.Error(),
		})
		return true
	}
	s.logger.Info("SCHEDULER", "Job finished", map[string]interface{}{
		"job":      job.Name,
		"duration": time.Since(started).String(),
	})
	return true
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func lockKey(job string, tick time.Time) string {
	return "scheduler:" + job + ":" + tick.UTC().Format(time.RFC3339)
}

// TickOf returns the scheduled activation that a run starting at now belongs to.
// Cron fires slightly after the activation, so the tick is looked up from half an
// interval back. "@every" schedules are not anchored to the clock and are bucketed
// by their delay instead.
func TickOf(schedule cron.Schedule, now time.Time) time.Time {
	if every, ok := schedule.(cron.ConstantDelaySchedule); ok {
		return now.Truncate(every.Delay)
	}
	next := schedule.Next(now)
	interval := schedule.Next(next).Sub(next)
	return schedule.Next(now.Add(-interval / 2))
}
