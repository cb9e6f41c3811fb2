package inbound

import (
	"context"
	"short-video-agent/domain"
)

type StartPipelineParams struct {
	UserID string
	Topic  string
}

type VideoCreatorPipelinePort interface {
	// StartPipeline runs the pipeline in the background. The returned channel
	// ends with exactly one terminal event and is then closed.
	StartPipeline(ctx context.Context, params StartPipelineParams) (<-chan domain.ProgressEvent, error)
}
