package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/config"
	"short-video-agent/domain"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const scriptSystemPrompt = `You are a professional YouTube Shorts script writer.
Write a script of about 30 seconds for the topic given by the user, split into five parts:
hook (catchy, at most two lines), intro (sets up what the video is about), body (the facts, told as a story),
conclusion (short summary) and call_to_action (ask the viewer to follow, at most one line).
Each part is spoken narration only. No stage directions, no emojis.
Respond with a single JSON object with exactly these string keys: hook, intro, body, conclusion, call_to_action.`

const videoPromptSystemPrompt = `You write prompts for a text-to-video model.
Given one line of narration, describe a single visually concrete shot of about five seconds that illustrates it:
subject, setting, lighting and camera movement. Do not repeat the narration and do not include any text overlays.
Respond with a JSON object with one string key: prompt.`

var scriptKeys = map[string]bool{
	"hook":           true,
	"intro":          true,
	"body":           true,
	"conclusion":     true,
	"call_to_action": true,
}

type videoPromptResponse struct {
	Prompt string `json:"prompt"`
}

type openAIScriptGenerator struct {
	logger    outbound.LoggerPort
	client    openai.Client
	gptConfig *config.GptConfig
}

func NewOpenAIScriptGenerator(gptConfig *config.GptConfig, logger outbound.LoggerPort, opts ...option.RequestOption) outbound.ScriptGeneratorPort {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(gptConfig.ApiKey),
	}
	if strings.TrimSpace(gptConfig.BaseURL) != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(gptConfig.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &openAIScriptGenerator{
		logger:    logger,
		client:    openai.NewClient(clientOpts...),
		gptConfig: gptConfig,
	}
}

func (g *openAIScriptGenerator) GenerateScript(ctx context.Context, topic string) (*domain.Script, error) {
	raw, err := g.complete(ctx, scriptSystemPrompt, topic)
	if err != nil {
		return nil, &domain.ScriptGenerationError{Stage: "script", Err: err}
	}

	script, err := g.parseScript(raw)
	if err != nil {
		g.logger.ErrorWithFields(err, "Model returned an unusable script", map[string]interface{}{
			"topic": topic,
			"raw":   raw,
		})
		return nil, &domain.ScriptGenerationError{Stage: "script", Err: err}
	}
	return script, nil
}

func (g *openAIScriptGenerator) GenerateVideoPrompt(ctx context.Context, narration string) (string, error) {
	raw, err := g.complete(ctx, videoPromptSystemPrompt, narration)
	if err != nil {
		return "", &domain.ScriptGenerationError{Stage: "video_prompt", Err: err}
	}

	var parsed videoPromptResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", &domain.ScriptGenerationError{Stage: "video_prompt", Err: fmt.Errorf("decode prompt: %w", err)}
	}
	prompt := strings.TrimSpace(parsed.Prompt)
	if prompt == "" {
		return "", &domain.ScriptGenerationError{Stage: "video_prompt", Err: errors.New("model returned an empty prompt")}
	}
	return prompt, nil
}

func (g *openAIScriptGenerator) complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       g.gptConfig.Model,
		Temperature: openai.Float(g.gptConfig.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		g.logger.Error(err, "Chat completion request failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return "", errors.New("model returned an empty message")
	}
	return raw, nil
}

// parseScript requires all five narration keys. Extra keys are ignored with a
// warning.
func (g *openAIScriptGenerator) parseScript(raw string) (*domain.Script, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	extra := make([]string, 0)
	for key := range fields {
		if !scriptKeys[key] {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		g.logger.WarnWithFields("Script carries unexpected keys", map[string]interface{}{
			"keys": extra,
		})
	}

	var script domain.Script
	if err := json.Unmarshal([]byte(raw), &script); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if missing := script.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("script is missing %v", missing)
	}
	return &script, nil
}
