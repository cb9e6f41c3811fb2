package outbound

import (
	"context"
	"short-video-agent/domain"
)

type SubmitJobRequest struct {
	Prompt      string
	AspectRatio string
}

// GenerationJobPort talks to the asynchronous media generation service.
// PollJob performs a single status check and never blocks waiting for progress.
type GenerationJobPort interface {
	SubmitVideoJob(ctx context.Context, req SubmitJobRequest) (*domain.GenerationJob, error)
	SubmitImageJob(ctx context.Context, req SubmitJobRequest) (*domain.GenerationJob, error)
	PollJob(ctx context.Context, job domain.GenerationJob) (*domain.GenerationJob, error)
}
