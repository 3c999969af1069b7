package llm

import (
	"context"
	"errors"
	"time"

	"econbot/application/ports"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker rejects calls
var ErrCircuitOpen = errors.New("llm circuit breaker is open")

// CircuitBreakerConfig holds configuration for the generator circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerGenerator fails fast once the wrapped generator keeps failing
type BreakerGenerator struct {
	next ports.TextGenerator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps a generator with a circuit breaker
func NewBreakerGenerator(next ports.TextGenerator, config CircuitBreakerConfig, logger *zap.Logger) *BreakerGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A cancelled caller says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerGenerator{next: next, cb: cb}
}

// Generate implements ports.TextGenerator
func (b *BreakerGenerator) Generate(ctx context.Context, req ports.GenerationRequest) (ports.Generation, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ports.Generation{}, ErrCircuitOpen
		}
		return ports.Generation{}, err
	}
	return out.(ports.Generation), nil
}

// State reports the breaker state for GET /ready
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}
