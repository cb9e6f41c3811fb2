package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletion(content string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	return payload
}

func newScriptGeneratorForContent(t *testing.T, content string) outbound.ScriptGeneratorPort {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gpt-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatCompletion(content))
	}))
	t.Cleanup(server.Close)

	return NewOpenAIScriptGenerator(&config.GptConfig{
		BaseURL:     server.URL + "/",
		ApiKey:      "gpt-key",
		Model:       "gpt-4o-mini",
		Temperature: 0.8,
	}, testLogger(), option.WithMaxRetries(0))
}

func TestOpenAIScriptGenerator_GenerateScript(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `{
		"hook": "Did you know honey never spoils?",
		"intro": "Here is why.",
		"body": "Its low moisture and acidity stop bacteria.",
		"conclusion": "Honey is basically immortal.",
		"call_to_action": "Follow for more food facts."
	}`)

	script, err := generator.GenerateScript(context.Background(), "food facts")
	require.NoError(t, err)
	assert.Equal(t, "Did you know honey never spoils?", script.Hook)
	assert.Equal(t, "Follow for more food facts.", script.CallToAction)
	assert.Empty(t, script.Missing())
}

func TestOpenAIScriptGenerator_ToleratesExtraKeys(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `{
		"hook": "h", "intro": "i", "body": "b", "conclusion": "c", "call_to_action": "cta",
		"title": "ignored"
	}`)

	script, err := generator.GenerateScript(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "cta", script.CallToAction)
}

func TestOpenAIScriptGenerator_MissingKey(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `{"hook": "h", "intro": "i", "body": "b", "conclusion": "c"}`)

	_, err := generator.GenerateScript(context.Background(), "anything")
	var scriptErr *domain.ScriptGenerationError
	require.ErrorAs(t, err, &scriptErr)
	assert.Contains(t, err.Error(), "call_to_action")
}

func TestOpenAIScriptGenerator_MalformedJSON(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `here is your script: hook...`)

	_, err := generator.GenerateScript(context.Background(), "anything")
	var scriptErr *domain.ScriptGenerationError
	assert.ErrorAs(t, err, &scriptErr)
}

func TestOpenAIScriptGenerator_GenerateVideoPrompt(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `{"prompt": "macro shot of golden honey dripping, warm light, slow push in"}`)

	prompt, err := generator.GenerateVideoPrompt(context.Background(), "Honey never spoils.")
	require.NoError(t, err)
	assert.Equal(t, "macro shot of golden honey dripping, warm light, slow push in", prompt)
}

func TestOpenAIScriptGenerator_EmptyVideoPrompt(t *testing.T) {
	generator := newScriptGeneratorForContent(t, `{"prompt": "  "}`)

	_, err := generator.GenerateVideoPrompt(context.Background(), "Honey never spoils.")
	var scriptErr *domain.ScriptGenerationError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "video_prompt", scriptErr.Stage)
}
