package generator

import (
	"context"
	"errors"
	"fmt"

	"editorial_ai/gemini"
)

// GeminiLLM implements LLMClient on the Gemini generateContent REST API.
type GeminiLLM struct {
	settings LLMSettings
	client   *gemini.Client
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.FastModel == "" {
		return nil, errors.New("llm text_model is required")
	}
	client, err := gemini.NewClient(cfg.APIKey, cfg.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	return &GeminiLLM{settings: *cfg, client: client}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	req := gemini.TextRequest(prompt.User)
	if prompt.System != "" {
		req.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: prompt.System}}}
	}
	if prompt.Schema != nil {
		req.GenerationConfig.ResponseMimeType = "application/json"
		req.GenerationConfig.ResponseSchema = prompt.Schema
	}
	if prompt.Grounded {
		req.Tools = []gemini.Tool{gemini.SearchTool()}
	}

	body, err := g.client.GenerateContent(ctx, g.settings.model(prompt.Tier), req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return gemini.Text(body), nil
}
