package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
	"strings"
)

var errUnknownDuration = errors.New("media duration could not be determined")

type MergeRequest struct {
	VideoFileName  string
	AudioFileName  string
	OutputFileName string
	TargetDuration float64
}

// MergeStrategy binds one segment's narration to its generated clip.
type MergeStrategy interface {
	Name() string
	Merge(ctx context.Context, req MergeRequest) error
}

// MergePolicy picks the strategy and the resulting output duration from the
// probed durations of the clip and the narration.
type MergePolicy func(videoDuration float64, audioDuration float64) (MergeStrategy, float64, error)

type loopVideoStrategy struct {
	media outbound.MediaToolchainPort
}

func (s *loopVideoStrategy) Name() string { return "loop_video" }

func (s *loopVideoStrategy) Merge(ctx context.Context, req MergeRequest) error {
	return s.media.LoopAndBindAudio(ctx, req.VideoFileName, req.AudioFileName, req.TargetDuration, req.OutputFileName)
}

type shortestStreamStrategy struct {
	media outbound.MediaToolchainPort
}

func (s *shortestStreamStrategy) Name() string { return "shortest_stream" }

func (s *shortestStreamStrategy) Merge(ctx context.Context, req MergeRequest) error {
	return s.media.MergeAudioVideo(ctx, req.VideoFileName, req.AudioFileName, req.OutputFileName)
}

// stretchAudioStrategy speeds the narration up so it fits the clip.
type stretchAudioStrategy struct {
	media  outbound.MediaToolchainPort
	factor float64
}

func (s *stretchAudioStrategy) Name() string { return "stretch_audio" }

func (s *stretchAudioStrategy) Merge(ctx context.Context, req MergeRequest) error {
	stretched := strings.TrimSuffix(req.AudioFileName, ".mp3") + "_stretched.mp3"
	if err := s.media.AdjustAudioSpeed(ctx, req.AudioFileName, s.factor, stretched); err != nil {
		return err
	}
	return s.media.MergeAudioVideo(ctx, req.VideoFileName, stretched, req.OutputFileName)
}

// NewMergePolicy returns the duration reconciliation policy. Narration longer
// than the clip loops the clip (or, for stretch-audio, speeds the narration
// up); otherwise the shorter stream bounds the output.
func NewMergePolicy(policy string, media outbound.MediaToolchainPort) (MergePolicy, error) {
	if policy != config.LoopVideoMergePolicy && policy != config.StretchAudioMergePolicy {
		return nil, fmt.Errorf("unknown merge policy %q", policy)
	}

	return func(videoDuration float64, audioDuration float64) (MergeStrategy, float64, error) {
		if !knownDuration(videoDuration) || !knownDuration(audioDuration) {
			return nil, 0, &domain.MediaProcessingError{
				Op:     "probe_duration",
				Err:    errUnknownDuration,
				Output: fmt.Sprintf("video=%.3fs audio=%.3fs", videoDuration, audioDuration),
			}
		}
		if audioDuration > videoDuration {
			if policy == config.StretchAudioMergePolicy {
				return &stretchAudioStrategy{media: media, factor: audioDuration / videoDuration}, videoDuration, nil
			}
			return &loopVideoStrategy{media: media}, audioDuration, nil
		}
		return &shortestStreamStrategy{media: media}, audioDuration, nil
	}, nil
}

func knownDuration(seconds float64) bool {
	return seconds > 0 && !math.IsInf(seconds, 0) && !math.IsNaN(seconds)
}
