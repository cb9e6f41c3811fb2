package services

import (
	"context"
	"fmt"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
	"time"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxJobWait   = 10 * time.Minute
)

type jobAwaiter struct {
	logger outbound.LoggerPort
	jobs   outbound.GenerationJobPort
}

func NewJobAwaiter(logger outbound.LoggerPort, jobs outbound.GenerationJobPort) inbound.JobAwaiterPort {
	return &jobAwaiter{
		logger: logger,
		jobs:   jobs,
	}
}

// AwaitJob polls until the job reaches a terminal state. The wait is bounded
// by params.MaxWait and by ctx; neither bound is ever skipped.
func (a *jobAwaiter) AwaitJob(ctx context.Context, params inbound.AwaitJobParams) (*domain.GenerationJob, error) {
	interval := params.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxWait := params.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxJobWait
	}

	waitCtx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	started := time.Now()
	current := params.Job
	polls := 0

	for {
		polled, err := a.jobs.PollJob(waitCtx, current)
		polls++
		if err != nil {
			if waitErr := a.waitError(ctx, waitCtx, current, started); waitErr != nil {
				return nil, waitErr
			}
			a.logger.ErrorWithFields(err, "Failed to poll generation job", map[string]interface{}{
				"job_id": current.ID,
				"polls":  polls,
			})
			return nil, fmt.Errorf("poll job %s: %w", current.ID, err)
		}
		current = *polled

		switch current.State {
		case domain.JobCompleted:
			if current.AssetURL == "" {
				return nil, &domain.GenerationFailedError{JobID: current.ID, Reason: "job completed without an asset url"}
			}
			a.logger.DebugWithFields("Generation job completed", map[string]interface{}{
				"job_id":  current.ID,
				"polls":   polls,
				"elapsed": time.Since(started).String(),
			})
			return &current, nil
		case domain.JobFailed:
			return nil, &domain.GenerationFailedError{JobID: current.ID, Reason: current.FailureReason}
		}

		timer := time.NewTimer(interval)
		select {
		case <-waitCtx.Done():
			timer.Stop()
			return nil, a.waitError(ctx, waitCtx, current, started)
		case <-timer.C:
		}
	}
}

func (a *jobAwaiter) waitError(ctx context.Context, waitCtx context.Context, job domain.GenerationJob, started time.Time) error {
	if waitCtx.Err() == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("await job %s: %w", job.ID, ctx.Err())
	}
	a.logger.WarnWithFields("Generation job timed out", map[string]interface{}{
		"job_id": job.ID,
		"state":  job.State,
	})
	return &domain.GenerationTimeoutError{JobID: job.ID, Waited: time.Since(started)}
}
