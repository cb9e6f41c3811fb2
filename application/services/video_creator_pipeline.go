package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/channel_utils"
	"short-video-agent/config"
	"short-video-agent/domain"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	progressBuffer     = 16
	segmentEventBuffer = 8

	finalVideoName = "final.mp4"
)

type videoCreatorPipeline struct {
	logger           outbound.LoggerPort
	scriptGenerator  outbound.ScriptGeneratorPort
	segmentProcessor inbound.SegmentProcessorPort
	media            outbound.MediaToolchainPort
	videoPublisher   outbound.VideoPublisherPort
	recordStore      outbound.VideoRecordStorePort
	runPool          outbound.TaskDispatcher
	segmentPool      outbound.TaskDispatcher
	conf             *config.PipelineConfig
}

func NewVideoCreatorPipeline(
	logger outbound.LoggerPort,
	scriptGenerator outbound.ScriptGeneratorPort,
	segmentProcessor inbound.SegmentProcessorPort,
	media outbound.MediaToolchainPort,
	videoPublisher outbound.VideoPublisherPort,
	recordStore outbound.VideoRecordStorePort,
	runPool outbound.TaskDispatcher,
	segmentPool outbound.TaskDispatcher,
	conf *config.PipelineConfig) inbound.VideoCreatorPipelinePort {
	return &videoCreatorPipeline{
		logger:           logger,
		scriptGenerator:  scriptGenerator,
		segmentProcessor: segmentProcessor,
		media:            media,
		videoPublisher:   videoPublisher,
		recordStore:      recordStore,
		runPool:          runPool,
		segmentPool:      segmentPool,
		conf:             conf,
	}
}

func (p *videoCreatorPipeline) StartPipeline(ctx context.Context, params inbound.StartPipelineParams) (<-chan domain.ProgressEvent, error) {
	topic := strings.TrimSpace(params.Topic)
	if topic == "" {
		return nil, domain.ErrEmptyTopic
	}

	run := domain.NewPipelineRun(params.UserID, topic)
	emitter := NewProgressEmitter(ctx, progressBuffer)

	err := p.runPool.Submit(func() {
		p.run(ctx, run, emitter)
	})
	if err != nil {
		p.logger.Error(err, "Failed to schedule pipeline run")
		return nil, err
	}

	return emitter.Events(), nil
}

func (p *videoCreatorPipeline) run(ctx context.Context, run *domain.PipelineRun, emitter *ProgressEmitter) {
	logger := p.logger.With(map[string]interface{}{"run_id": run.ID})
	logger.InfoWithFields("Pipeline run started", map[string]interface{}{
		"user_id": run.UserID,
		"topic":   run.Topic,
	})

	err := p.execute(ctx, run, emitter)
	run.CompletedAt = time.Now().UTC()
	run.Status = domain.StatusForError(err)

	if err != nil {
		run.Err = err
		logger.ErrorWithFields(err, "Pipeline run failed", map[string]interface{}{
			"status": run.Status,
		})
		emitter.Fail(err)
		return
	}

	logger.InfoWithFields("Pipeline run completed", map[string]interface{}{
		"url":      run.VideoURL,
		"duration": run.CompletedAt.Sub(run.StartedAt).String(),
	})
	emitter.Complete(run.VideoURL)
}

func (p *videoCreatorPipeline) execute(ctx context.Context, run *domain.PipelineRun, emitter *ProgressEmitter) error {
	workDir, err := p.createWorkDir(run.ID)
	if err != nil {
		return err
	}
	run.WorkDir = workDir
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			p.logger.ErrorWithFields(err, "Failed to remove working directory", map[string]interface{}{
				"run_id":   run.ID,
				"work_dir": workDir,
			})
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	script, err := p.scriptGenerator.GenerateScript(runCtx, run.Topic)
	if err != nil {
		return err
	}
	if missing := script.Missing(); len(missing) > 0 {
		return &domain.ScriptGenerationError{Stage: "script", Err: fmt.Errorf("missing narration for %v", missing)}
	}
	if err := step(runCtx, emitter, domain.StepScript, "script generated"); err != nil {
		return err
	}

	if err := p.processSegments(runCtx, run, script, emitter); err != nil {
		return err
	}

	mergedFiles := lo.Map(run.Segments, func(seg *domain.Segment, _ int) string { return seg.MergedFile })

	concatenated := filepath.Join(workDir, "concatenated.mp4")
	if err := p.media.Concatenate(runCtx, mergedFiles, concatenated); err != nil {
		return err
	}
	if err := step(runCtx, emitter, domain.StepConcatenate, "segments concatenated"); err != nil {
		return err
	}

	narration := filepath.Join(workDir, "narration.mp3")
	if err := p.media.ExtractAudio(runCtx, concatenated, narration); err != nil {
		return err
	}
	if err := step(runCtx, emitter, domain.StepExtractAudio, "audio extracted"); err != nil {
		return err
	}

	subtitles := filepath.Join(workDir, "subtitles.srt")
	if err := p.media.TranscribeToSubtitles(runCtx, narration, subtitles); err != nil {
		return err
	}
	if err := step(runCtx, emitter, domain.StepTranscribe, "subtitles transcribed"); err != nil {
		return err
	}

	run.FinalPath = filepath.Join(workDir, finalVideoName)
	if err := p.media.BurnSubtitles(runCtx, concatenated, subtitles, run.FinalPath); err != nil {
		return err
	}
	if err := step(runCtx, emitter, domain.StepSubtitles, "subtitles burned in"); err != nil {
		return err
	}

	published, err := p.videoPublisher.Publish(runCtx, outbound.PublishVideoRequest{
		VideoFileName: run.FinalPath,
		Name:          finalVideoName,
		OwnerID:       run.UserID,
		RunID:         run.ID,
	})
	if err != nil {
		return err
	}
	run.VideoURL = published.URL
	run.SizeBytes = published.SizeBytes
	if err := step(runCtx, emitter, domain.StepUpload, published.URL); err != nil {
		return err
	}

	record, err := p.recordStore.Create(runCtx, domain.VideoRecord{
		ID:        uuid.NewString(),
		OwnerID:   run.UserID,
		Title:     run.Topic,
		URL:       run.VideoURL,
		SizeBytes: run.SizeBytes,
		RunID:     run.ID,
		Status:    domain.VideoStatusPublished,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return step(runCtx, emitter, domain.StepPersist, "video record "+record.ID)
}

// processSegments schedules every segment on the segment pool and forwards
// their events in segment order. The first failure cancels the rest.
func (p *videoCreatorPipeline) processSegments(ctx context.Context, run *domain.PipelineRun, script *domain.Script, emitter *ProgressEmitter) error {
	segmentCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	streams := make([]<-chan domain.ProgressEvent, 0, len(run.Segments))
	for _, seg := range run.Segments {
		segment := seg
		events := make(chan domain.ProgressEvent, segmentEventBuffer)
		streams = append(streams, events)

		wg.Add(1)
		err := p.segmentPool.Submit(func() {
			defer wg.Done()
			defer close(events)
			err := p.segmentProcessor.Process(segmentCtx, inbound.ProcessSegmentParams{
				RunID:     run.ID,
				WorkDir:   run.WorkDir,
				Narration: script.Narration(segment.Name),
				Segment:   segment,
				Emit: func(event domain.ProgressEvent) {
					events <- event
				},
			})
			if err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			close(events)
			fail(fmt.Errorf("schedule segment %s: %w", segment.Name, err))
			break
		}
	}

	forwardErr := channel_utils.ForwardInOrder(segmentCtx, emitter.Emit, streams...)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if forwardErr != nil {
		return forwardErr
	}
	return nil
}

func (p *videoCreatorPipeline) createWorkDir(runID string) (string, error) {
	if err := os.MkdirAll(p.conf.WorkDir, 0755); err != nil {
		return "", fmt.Errorf("create work root: %w", err)
	}
	dir := filepath.Join(p.conf.WorkDir, runID)
	// Mkdir fails if the directory exists, so a run never shares its directory.
	if err := os.Mkdir(dir, 0700); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return dir, nil
}

func step(ctx context.Context, emitter *ProgressEmitter, name string, message string) error {
	if !emitter.Step(name, message) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return context.Canceled
	}
	return nil
}
