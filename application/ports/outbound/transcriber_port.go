package outbound

import "context"

type TranscriberPort interface {
	// Transcribe returns subtitle formatted (SRT) text for the audio file.
	Transcribe(ctx context.Context, audioFileName string) (string, error)
}
