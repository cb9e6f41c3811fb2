package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGptConfig_Defaults(t *testing.T) {
	t.Setenv("GPT_MODEL", "gpt-4o-mini")
	t.Setenv("GPT_API_KEY", "key")
	t.Setenv("GPT_API_URL", "")
	t.Setenv("GPT_TEMPERATURE", "")

	conf, err := GetGptConfig()
	require.NoError(t, err)
	assert.Empty(t, conf.BaseURL)
	assert.Equal(t, 0.8, conf.Temperature)
}

func TestGetGptConfig_RejectsTemperatureOutOfRange(t *testing.T) {
	t.Setenv("GPT_MODEL", "gpt-4o-mini")
	t.Setenv("GPT_API_KEY", "key")
	t.Setenv("GPT_TEMPERATURE", "3")

	_, err := GetGptConfig()
	assert.Error(t, err)
}

func TestGetGptConfig_RequiresKey(t *testing.T) {
	t.Setenv("GPT_MODEL", "gpt-4o-mini")
	t.Setenv("GPT_API_KEY", "")

	_, err := GetGptConfig()
	assert.ErrorContains(t, err, "GPT_API_KEY")
}
