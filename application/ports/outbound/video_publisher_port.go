package outbound

import "context"

type PublishVideoRequest struct {
	VideoFileName string
	Name          string
	OwnerID       string
	RunID         string
}

type PublishVideoResponse struct {
	URL       string
	SizeBytes int64
}

type VideoPublisherPort interface {
	Publish(ctx context.Context, req PublishVideoRequest) (*PublishVideoResponse, error)
}
