package inbound

import (
	"context"
	"short-video-agent/domain"
)

type ProcessSegmentParams struct {
	RunID     string
	WorkDir   string
	Narration string
	Segment   *domain.Segment
	Emit      func(event domain.ProgressEvent)
}

type SegmentProcessorPort interface {
	Process(ctx context.Context, params ProcessSegmentParams) error
}
