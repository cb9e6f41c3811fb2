package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
)

type lumaGenerationRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Model       string `json:"model"`
}

type lumaGeneration struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	FailureReason string `json:"failure_reason"`
	Assets        struct {
		Video string `json:"video"`
		Image string `json:"image"`
	} `json:"assets"`
}

type lumaGenerationClient struct {
	ContentFetcher
	logger     outbound.LoggerPort
	lumaConfig *config.LumaConfig
}

func NewLumaGenerationClient(contentFetcher ContentFetcher, lumaConfig *config.LumaConfig, logger outbound.LoggerPort) outbound.GenerationJobPort {
	return &lumaGenerationClient{
		ContentFetcher: contentFetcher,
		logger:         logger,
		lumaConfig:     lumaConfig,
	}
}

func (l *lumaGenerationClient) SubmitVideoJob(ctx context.Context, req outbound.SubmitJobRequest) (*domain.GenerationJob, error) {
	return l.submit(ctx, "/generations", domain.VideoJobKind, lumaGenerationRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Model:       l.lumaConfig.VideoModel,
	})
}

func (l *lumaGenerationClient) SubmitImageJob(ctx context.Context, req outbound.SubmitJobRequest) (*domain.GenerationJob, error) {
	return l.submit(ctx, "/generations/image", domain.ImageJobKind, lumaGenerationRequest{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Model:       l.lumaConfig.ImageModel,
	})
}

func (l *lumaGenerationClient) PollJob(ctx context.Context, job domain.GenerationJob) (*domain.GenerationJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.lumaConfig.ApiUrl+"/generations/"+url.PathEscape(job.ID), nil)
	if err != nil {
		return nil, err
	}
	l.setHeaders(req)

	payload, err := l.FetchContent(req)
	if err != nil {
		return nil, fmt.Errorf("poll generation %s: %w", job.ID, err)
	}

	var generation lumaGeneration
	if err := json.Unmarshal(payload, &generation); err != nil {
		return nil, fmt.Errorf("decode generation %s: %w", job.ID, err)
	}
	if generation.ID == "" {
		generation.ID = job.ID
	}
	return toGenerationJob(generation, job.Kind), nil
}

func (l *lumaGenerationClient) submit(ctx context.Context, path string, kind domain.JobKind, body lumaGenerationRequest) (*domain.GenerationJob, error) {
	jsonPayload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.lumaConfig.ApiUrl+path, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}
	l.setHeaders(req)

	payload, err := l.FetchContent(req)
	if err != nil {
		return nil, fmt.Errorf("submit %s generation: %w", kind, err)
	}

	var generation lumaGeneration
	if err := json.Unmarshal(payload, &generation); err != nil {
		return nil, fmt.Errorf("decode %s generation: %w", kind, err)
	}
	if generation.ID == "" {
		return nil, fmt.Errorf("submit %s generation: response carries no id", kind)
	}

	l.logger.InfoWithFields("Generation job submitted", map[string]interface{}{
		"job_id": generation.ID,
		"kind":   kind,
		"model":  body.Model,
	})
	return toGenerationJob(generation, kind), nil
}

func (l *lumaGenerationClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+l.lumaConfig.ApiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}

func toGenerationJob(generation lumaGeneration, kind domain.JobKind) *domain.GenerationJob {
	job := &domain.GenerationJob{
		ID:   generation.ID,
		Kind: kind,
	}
	switch generation.State {
	case "completed":
		job.State = domain.JobCompleted
		if kind == domain.ImageJobKind {
			job.AssetURL = generation.Assets.Image
		} else {
			job.AssetURL = generation.Assets.Video
		}
	case "failed":
		job.State = domain.JobFailed
		job.FailureReason = generation.FailureReason
	case "dreaming":
		job.State = domain.JobRunning
	default:
		job.State = domain.JobQueued
	}
	return job
}
