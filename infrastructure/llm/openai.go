package llm

import (
	"context"
	"errors"
	"fmt"

	"econbot/application/ports"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the provider answers without any choices
var ErrEmptyResponse = errors.New("llm returned no choices")

// OpenAIConfig holds connection settings for the OpenAI chat API
type OpenAIConfig struct {
	APIKey       string
	Organization string
	Model        string
	BaseURL      string
}

// Generator sends prompts to a langchaingo chat model
type Generator struct {
	model    llms.Model
	provider string
	logger   *zap.Logger
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat API
func NewOpenAIGenerator(cfg OpenAIConfig, logger *zap.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, openai.WithOrganization(cfg.Organization))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to create client: %w", err)
	}

	return NewGenerator(client, "openai", logger), nil
}

// NewGenerator wraps any langchaingo model
func NewGenerator(model llms.Model, provider string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		model:    model,
		provider: provider,
		logger:   logger,
	}
}

// Generate implements ports.TextGenerator
func (g *Generator) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt))

	callOpts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := g.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		g.logger.Warn("LLM call failed",
			zap.String("provider", g.provider),
			zap.String("step", req.Step),
			zap.Error(err),
		)
		return ports.Generation{}, fmt.Errorf("%s: %w", g.provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return ports.Generation{}, fmt.Errorf("%s: %w", g.provider, ErrEmptyResponse)
	}

	return ports.Generation{Text: resp.Choices[0].Content}, nil
}
