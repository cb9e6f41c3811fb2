package services

import (
	"context"
	"math"
	"testing"

	"short-video-agent/config"
	"short-video-agent/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePolicy_LoopsVideoForLongerNarration(t *testing.T) {
	media := &fakeMedia{}
	policy, err := NewMergePolicy(config.LoopVideoMergePolicy, media)
	require.NoError(t, err)

	strategy, target, err := policy(5, 8.5)
	require.NoError(t, err)
	assert.Equal(t, "loop_video", strategy.Name())
	assert.Equal(t, 8.5, target)

	out := t.TempDir() + "/hook_merged.mp4"
	require.NoError(t, strategy.Merge(context.Background(), MergeRequest{
		VideoFileName:  "hook_video.mp4",
		AudioFileName:  "hook_audio.mp3",
		OutputFileName: out,
		TargetDuration: target,
	}))
	assert.True(t, media.called("loop_and_bind"))
}

func TestMergePolicy_ShortestStreamForShorterNarration(t *testing.T) {
	policy, err := NewMergePolicy(config.LoopVideoMergePolicy, &fakeMedia{})
	require.NoError(t, err)

	strategy, target, err := policy(5, 3.2)
	require.NoError(t, err)
	assert.Equal(t, "shortest_stream", strategy.Name())
	assert.Equal(t, 3.2, target)

	strategy, target, err = policy(5, 5)
	require.NoError(t, err)
	assert.Equal(t, "shortest_stream", strategy.Name())
	assert.Equal(t, 5.0, target)
}

func TestMergePolicy_StretchAudio(t *testing.T) {
	media := &fakeMedia{}
	policy, err := NewMergePolicy(config.StretchAudioMergePolicy, media)
	require.NoError(t, err)

	strategy, target, err := policy(5, 7.5)
	require.NoError(t, err)
	assert.Equal(t, "stretch_audio", strategy.Name())
	assert.Equal(t, 5.0, target)

	dir := t.TempDir()
	require.NoError(t, strategy.Merge(context.Background(), MergeRequest{
		VideoFileName:  dir + "/body_video.mp4",
		AudioFileName:  dir + "/body_audio.mp3",
		OutputFileName: dir + "/body_merged.mp4",
		TargetDuration: target,
	}))
	assert.InDelta(t, 1.5, media.speedFactor, 1e-9)
	assert.Equal(t, []string{"adjust_speed", "merge"}, media.calls)
}

func TestMergePolicy_UnknownDuration(t *testing.T) {
	policy, err := NewMergePolicy(config.LoopVideoMergePolicy, &fakeMedia{})
	require.NoError(t, err)

	_, _, err = policy(0, 4)
	var mediaErr *domain.MediaProcessingError
	assert.ErrorAs(t, err, &mediaErr)

	_, _, err = policy(4, 0)
	assert.ErrorAs(t, err, &mediaErr)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		strategy, _, err := policy(bad, 7)
		assert.Nil(t, strategy)
		assert.ErrorAs(t, err, &mediaErr)

		strategy, _, err = policy(3, bad)
		assert.Nil(t, strategy)
		assert.ErrorAs(t, err, &mediaErr)
	}
}

func TestMergePolicy_UnknownPolicy(t *testing.T) {
	_, err := NewMergePolicy("crossfade", &fakeMedia{})
	assert.Error(t, err)
}
