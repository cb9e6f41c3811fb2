package outbound

import "context"

// MediaToolchainPort wraps the media engine. Every operation writes to the
// output file named by the caller and fails with *domain.MediaProcessingError.
type MediaToolchainPort interface {
	ExtractAudio(ctx context.Context, videoFileName string, outputFileName string) error
	// ProbeDuration returns 0 when the engine cannot determine the duration.
	ProbeDuration(ctx context.Context, fileName string) (float64, error)
	LoopAndBindAudio(ctx context.Context, videoFileName string, audioFileName string, targetDuration float64, outputFileName string) error
	MergeAudioVideo(ctx context.Context, videoFileName string, audioFileName string, outputFileName string) error
	AdjustAudioSpeed(ctx context.Context, audioFileName string, factor float64, outputFileName string) error
	Concatenate(ctx context.Context, videoFileNames []string, outputFileName string) error
	BurnSubtitles(ctx context.Context, videoFileName string, subtitleFileName string, outputFileName string) error
	TranscribeToSubtitles(ctx context.Context, audioFileName string, outputFileName string) error
}
