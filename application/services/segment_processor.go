package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
	"strings"

	"golang.org/x/sync/errgroup"
)

var errPromptEchoesNarration = errors.New("video prompt repeats the narration verbatim")

type segmentProcessor struct {
	logger          outbound.LoggerPort
	scriptGenerator outbound.ScriptGeneratorPort
	jobs            outbound.GenerationJobPort
	awaiter         inbound.JobAwaiterPort
	audioGenerator  outbound.AudioGeneratorPort
	downloader      outbound.AssetDownloaderPort
	media           outbound.MediaToolchainPort
	mergePolicy     MergePolicy
	conf            *config.PipelineConfig
}

func NewSegmentProcessor(
	logger outbound.LoggerPort,
	scriptGenerator outbound.ScriptGeneratorPort,
	jobs outbound.GenerationJobPort,
	awaiter inbound.JobAwaiterPort,
	audioGenerator outbound.AudioGeneratorPort,
	downloader outbound.AssetDownloaderPort,
	media outbound.MediaToolchainPort,
	mergePolicy MergePolicy,
	conf *config.PipelineConfig) inbound.SegmentProcessorPort {
	return &segmentProcessor{
		logger:          logger,
		scriptGenerator: scriptGenerator,
		jobs:            jobs,
		awaiter:         awaiter,
		audioGenerator:  audioGenerator,
		downloader:      downloader,
		media:           media,
		mergePolicy:     mergePolicy,
		conf:            conf,
	}
}

// Process drives one segment from pending to merged. On any error the segment
// is marked failed and the error is returned; no later stage runs.
func (s *segmentProcessor) Process(ctx context.Context, params inbound.ProcessSegmentParams) error {
	seg := params.Segment
	err := s.process(ctx, params)
	if err != nil {
		seg.Fail(err.Error())
		s.logger.ErrorWithFields(err, "Segment failed", map[string]interface{}{
			"run_id":  params.RunID,
			"segment": seg.Name,
		})
		return fmt.Errorf("segment %s: %w", seg.Name, err)
	}
	return nil
}

func (s *segmentProcessor) process(ctx context.Context, params inbound.ProcessSegmentParams) error {
	seg := params.Segment
	emit := func(message string) {
		if params.Emit != nil {
			params.Emit(domain.ProgressEvent{Step: domain.SegmentStep(seg.Name, seg.State), Message: message})
		}
	}

	seg.Narration = params.Narration
	if err := seg.Advance(domain.SegmentScripted); err != nil {
		return err
	}
	emit("narration ready")

	prompt, err := s.scriptGenerator.GenerateVideoPrompt(ctx, seg.Narration)
	if err != nil {
		return err
	}
	if err := validatePrompt(prompt, seg.Narration); err != nil {
		return err
	}
	seg.VideoPrompt = prompt
	if err := seg.Advance(domain.SegmentPrompted); err != nil {
		return err
	}
	emit("video prompt ready")

	job, err := s.jobs.SubmitVideoJob(ctx, outbound.SubmitJobRequest{
		Prompt:      prompt,
		AspectRatio: s.conf.AspectRatio,
	})
	if err != nil {
		return fmt.Errorf("submit video job: %w", err)
	}
	seg.VideoJob = job
	if err := seg.Advance(domain.SegmentVideoRequested); err != nil {
		return err
	}
	emit("video job " + job.ID)

	videoFile := filepath.Join(params.WorkDir, string(seg.Name)+"_video.mp4")
	audioFile := filepath.Join(params.WorkDir, string(seg.Name)+"_audio.mp3")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		completed, err := s.awaiter.AwaitJob(gCtx, inbound.AwaitJobParams{
			Job:          *job,
			PollInterval: s.conf.PollInterval,
			MaxWait:      s.conf.MaxJobWait,
		})
		if err != nil {
			return err
		}
		seg.VideoJob = completed
		return s.downloader.Download(gCtx, completed.AssetURL, videoFile)
	})
	g.Go(func() error {
		audio, err := s.audioGenerator.Generate(gCtx, outbound.GenerateAudioRequest{
			Text:    seg.Narration,
			VoiceID: s.conf.VoiceID,
		})
		if err != nil {
			return fmt.Errorf("synthesize speech: %w", err)
		}
		if err := os.WriteFile(audioFile, audio, 0644); err != nil {
			return fmt.Errorf("write audio file: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	seg.VideoFile = videoFile
	if err := seg.Advance(domain.SegmentVideoReady); err != nil {
		return err
	}
	emit("video downloaded")
	seg.AudioFile = audioFile
	if err := seg.Advance(domain.SegmentAudioReady); err != nil {
		return err
	}
	emit("narration audio ready")

	mergedFile := filepath.Join(params.WorkDir, string(seg.Name)+"_merged.mp4")
	target, err := s.merge(ctx, videoFile, audioFile, mergedFile)
	if err != nil {
		return err
	}
	seg.MergedFile = mergedFile
	seg.TargetDuration = target
	if err := seg.Advance(domain.SegmentMerged); err != nil {
		return err
	}
	emit(fmt.Sprintf("merged %.2fs", target))
	return nil
}

func (s *segmentProcessor) merge(ctx context.Context, videoFile string, audioFile string, outputFile string) (float64, error) {
	videoDuration, err := s.media.ProbeDuration(ctx, videoFile)
	if err != nil {
		return 0, err
	}
	audioDuration, err := s.media.ProbeDuration(ctx, audioFile)
	if err != nil {
		return 0, err
	}

	strategy, target, err := s.mergePolicy(videoDuration, audioDuration)
	if err != nil {
		return 0, err
	}
	s.logger.DebugWithFields("Merging segment media", map[string]interface{}{
		"strategy": strategy.Name(),
		"video":    videoDuration,
		"audio":    audioDuration,
		"target":   target,
	})

	err = strategy.Merge(ctx, MergeRequest{
		VideoFileName:  videoFile,
		AudioFileName:  audioFile,
		OutputFileName: outputFile,
		TargetDuration: target,
	})
	if err != nil {
		return 0, err
	}
	return target, nil
}

func validatePrompt(prompt string, narration string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return &domain.ScriptGenerationError{Stage: "video_prompt", Err: errors.New("empty video prompt")}
	}
	if strings.EqualFold(trimmed, strings.TrimSpace(narration)) {
		return &domain.ScriptGenerationError{Stage: "video_prompt", Err: errPromptEchoesNarration}
	}
	return nil
}
