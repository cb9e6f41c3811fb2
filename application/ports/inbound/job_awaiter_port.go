package inbound

import (
	"context"
	"short-video-agent/domain"
	"time"
)

type AwaitJobParams struct {
	Job          domain.GenerationJob
	PollInterval time.Duration
	MaxWait      time.Duration
}

type JobAwaiterPort interface {
	AwaitJob(ctx context.Context, params AwaitJobParams) (*domain.GenerationJob, error)
}
