package config

import (
	"fmt"
	"os"
)

type WhisperConfig struct {
	// BaseURL points at an OpenAI compatible server; empty means api.openai.com.
	BaseURL string
	ApiKey  string
	Model   string
}

func GetWhisperConfig() (*WhisperConfig, error) {
	apiKey := os.Getenv("WHISPER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GPT_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("WHISPER_API_KEY or GPT_API_KEY must be set")
	}
	model := os.Getenv("WHISPER_MODEL")
	if model == "" {
		model = "whisper-1"
	}

	return &WhisperConfig{
		BaseURL: os.Getenv("WHISPER_API_URL"),
		ApiKey:  apiKey,
		Model:   model,
	}, nil
}
