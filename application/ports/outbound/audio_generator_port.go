package outbound

import "context"

type GenerateAudioRequest struct {
	Text    string
	VoiceID string
}

type AudioGeneratorPort interface {
	Generate(ctx context.Context, req GenerateAudioRequest) ([]byte, error)
}
