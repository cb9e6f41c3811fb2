package outbound

import (
	"context"
	"short-video-agent/domain"
)

type VideoRecordStorePort interface {
	Create(ctx context.Context, record domain.VideoRecord) (*domain.VideoRecord, error)
	Get(ctx context.Context, id string) (*domain.VideoRecord, error)
}
