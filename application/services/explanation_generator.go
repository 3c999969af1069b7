package services

import (
	"context"
	"fmt"
	"time"

	"econbot/application/ports"
	"econbot/domain/config"
	"econbot/domain/core/valueobjects"
	"go.uber.org/zap"
)

// Pipeline step names used in generation requests, logs and metrics
const (
	StepExplain      = "explain"
	StepExtractTerms = "extract_terms"
)

// ExplanationGenerator asks the educator persona to explain a topic
type ExplanationGenerator struct {
	generator ports.TextGenerator
	cfg       *config.DomainConfig
	metrics   ports.Metrics
	logger    *zap.Logger
}

// NewExplanationGenerator creates a new explanation generator
func NewExplanationGenerator(
	generator ports.TextGenerator,
	cfg *config.DomainConfig,
	metrics ports.Metrics,
	logger *zap.Logger,
) *ExplanationGenerator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ExplanationGenerator{
		generator: generator,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Explain produces a free-text explanation of the topic.
// Failures from the generator are returned as-is, wrapped with the step name.
func (s *ExplanationGenerator) Explain(ctx context.Context, topic valueobjects.Topic) (string, error) {
	agent := valueobjects.EconomicEducator(s.cfg)
	task := valueobjects.EducateTask(s.cfg, topic)

	start := time.Now()
	gen, err := s.generator.Generate(ctx, ports.GenerationRequest{
		Step:         StepExplain,
		SystemPrompt: agent.SystemPrompt(),
		UserPrompt:   task.UserPrompt(),
		Temperature:  s.cfg.ExplanationTemperature,
		MaxTokens:    s.cfg.MaxTokens,
	})
	s.metrics.ObserveLLMCall(StepExplain, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("failed to generate explanation: %w", err)
	}

	s.logger.Debug("Explanation generated",
		zap.String("topic", topic.String()),
		zap.Int("length", len(gen.Text)),
		zap.Duration("duration", time.Since(start)),
	)

	return gen.Text, nil
}
