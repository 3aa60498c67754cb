package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/mathieu-neron/vixtube/internal/config"
)

const defaultGenAIModel = "gemini-2.0-flash"

// GenAIProvider generates text with the Gemini API.
type GenAIProvider struct {
	client *genai.Client
	model  string
	cfg    config.AIConfig
}

func NewGenAIProvider(ctx context.Context, cfg config.AIConfig) (*GenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai.api_key is required for the genai provider")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGenAIModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIProvider{client: client, model: model, cfg: cfg}, nil
}

func (p *GenAIProvider) Name() string { return ProviderGenAI }

func (p *GenAIProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	var gc *genai.GenerateContentConfig
	if prompt.System != "" {
		gc = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		}
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt.User), gc)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("genai returned an empty response")
	}
	return text, nil
}
