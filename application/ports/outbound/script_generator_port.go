package outbound

import (
	"context"
	"short-video-agent/domain"
)

type ScriptGeneratorPort interface {
	GenerateScript(ctx context.Context, topic string) (*domain.Script, error)
	GenerateVideoPrompt(ctx context.Context, narration string) (string, error)
}
