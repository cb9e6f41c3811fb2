package mock

import (
	"context"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/domain"
	"strings"
	"time"
)

type replayPipeline struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	events     []MockEvent
}

// NewReplayPipeline serves a recorded run instead of calling any upstream
// service. Used for front-end work against a stable stream.
func NewReplayPipeline(fileName string, reader EventReader, workerPool outbound.TaskDispatcher, logger outbound.LoggerPort) (inbound.VideoCreatorPipelinePort, error) {
	events, err := reader.Read(fileName)
	if err != nil {
		return nil, err
	}
	logger.InfoWithFields("Replay pipeline enabled", map[string]interface{}{
		"file":   fileName,
		"events": len(events),
	})
	return &replayPipeline{
		logger:     logger,
		workerPool: workerPool,
		events:     events,
	}, nil
}

func (r *replayPipeline) StartPipeline(ctx context.Context, params inbound.StartPipelineParams) (<-chan domain.ProgressEvent, error) {
	if strings.TrimSpace(params.Topic) == "" {
		return nil, domain.ErrEmptyTopic
	}

	out := make(chan domain.ProgressEvent)
	err := r.workerPool.Submit(func() {
		defer close(out)
		for _, e := range r.events {
			timer := time.NewTimer(time.Duration(e.DelayMs) * time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			select {
			case <-ctx.Done():
				return
			case out <- e.ProgressEvent:
			}
		}
		r.logger.Info("Finished replaying recorded run.")
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
