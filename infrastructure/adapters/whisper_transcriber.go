package adapters

import (
	"context"
	"errors"
	"os"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type whisperTranscriber struct {
	logger        outbound.LoggerPort
	client        openai.Client
	whisperConfig *config.WhisperConfig
}

func NewWhisperTranscriber(whisperConfig *config.WhisperConfig, logger outbound.LoggerPort, opts ...option.RequestOption) outbound.TranscriberPort {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(whisperConfig.ApiKey),
	}
	if strings.TrimSpace(whisperConfig.BaseURL) != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(whisperConfig.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &whisperTranscriber{
		logger:        logger,
		client:        openai.NewClient(clientOpts...),
		whisperConfig: whisperConfig,
	}
}

// Transcribe uploads the audio file and returns the SRT body verbatim.
func (w *whisperTranscriber) Transcribe(ctx context.Context, audioFileName string) (string, error) {
	file, err := os.Open(audioFileName)
	if err != nil {
		w.logger.ErrorWithFields(err, "Failed to open audio for transcription", map[string]interface{}{
			"file": audioFileName,
		})
		return "", err
	}
	defer file.Close()

	// SRT is plain text, so the body is taken raw instead of decoded as JSON.
	var payload []byte
	_, err = w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModel(w.whisperConfig.Model),
		ResponseFormat: openai.AudioResponseFormatSRT,
	}, option.WithResponseBodyInto(&payload))
	if err != nil {
		w.logger.ErrorWithFields(err, "Transcription request failed", map[string]interface{}{
			"file":  audioFileName,
			"model": w.whisperConfig.Model,
		})
		return "", err
	}

	srt := string(payload)
	if strings.TrimSpace(srt) == "" {
		return "", errors.New("transcription returned no subtitles")
	}
	return srt, nil
}
