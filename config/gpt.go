package config

import (
	"fmt"
	"os"
)

type GptConfig struct {
	BaseURL     string
	ApiKey      string
	Model       string
	Temperature float64
}

// GetGptConfig reads the chat completion settings. GPT_API_URL is optional and
// only needed for OpenAI compatible gateways.
func GetGptConfig() (*GptConfig, error) {
	model := os.Getenv("GPT_MODEL")
	if model == "" {
		return nil, fmt.Errorf("GPT_MODEL must be set")
	}
	apiKey := os.Getenv("GPT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GPT_API_KEY must be set")
	}
	temperature, err := parseFloatEnv("GPT_TEMPERATURE", 0.8)
	if err != nil {
		return nil, err
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("GPT_TEMPERATURE must be between 0 and 2, got %v", temperature)
	}

	return &GptConfig{
		BaseURL:     os.Getenv("GPT_API_URL"),
		ApiKey:      apiKey,
		Model:       model,
		Temperature: temperature,
	}, nil
}
