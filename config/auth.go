package config

import (
	"fmt"
	"os"
)

type AuthConfig struct {
	JwksURL string
}

func GetAuthConfig() (*AuthConfig, error) {
	jwksURL := os.Getenv("JWKS_URL")
	if jwksURL == "" {
		return nil, fmt.Errorf("JWKS_URL must be set")
	}
	return &AuthConfig{
		JwksURL: jwksURL,
	}, nil
}
