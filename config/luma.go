package config

import (
	"fmt"
	"os"
)

type LumaConfig struct {
	ApiUrl     string
	ApiKey     string
	VideoModel string
	ImageModel string
}

func GetLumaConfig() (*LumaConfig, error) {
	apiUrl := os.Getenv("LUMA_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.lumalabs.ai/dream-machine/v1"
	}
	apiKey := os.Getenv("LUMA_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("LUMA_API_KEY must be set")
	}
	videoModel := os.Getenv("LUMA_VIDEO_MODEL")
	if videoModel == "" {
		videoModel = "ray-2"
	}
	imageModel := os.Getenv("LUMA_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "photon-1"
	}

	return &LumaConfig{
		ApiUrl:     apiUrl,
		ApiKey:     apiKey,
		VideoModel: videoModel,
		ImageModel: imageModel,
	}, nil
}
