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

// TermExtractor asks the model for a comma-separated list of related terms
type TermExtractor struct {
	generator ports.TextGenerator
	cfg       *config.DomainConfig
	metrics   ports.Metrics
	logger    *zap.Logger
}

// NewTermExtractor creates a new term extractor
func NewTermExtractor(
	generator ports.TextGenerator,
	cfg *config.DomainConfig,
	metrics ports.Metrics,
	logger *zap.Logger,
) *TermExtractor {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &TermExtractor{
		generator: generator,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Extract returns the terms the model lists for the topic.
// A reply with no usable terms yields an empty list, not an error.
func (s *TermExtractor) Extract(ctx context.Context, topic valueobjects.Topic) (valueobjects.TermList, error) {
	start := time.Now()
	gen, err := s.generator.Generate(ctx, ports.GenerationRequest{
		Step:        StepExtractTerms,
		UserPrompt:  valueobjects.TermExtractionPrompt(s.cfg, topic),
		Temperature: s.cfg.TermsTemperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	s.metrics.ObserveLLMCall(StepExtractTerms, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to extract terms: %w", err)
	}

	terms := valueobjects.ParseTerms(gen.Text)
	s.metrics.ObserveTerms(len(terms))

	s.logger.Debug("Terms extracted",
		zap.String("topic", topic.String()),
		zap.Strings("terms", terms.Strings()),
	)

	return terms, nil
}
