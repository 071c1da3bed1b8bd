// Package ratelimit wraps an LLM service with a client-side request rate
// limit. Local inference servers fall over under a burst of concurrent
// requests; pacing calls keeps a multi-unit extraction from drowning them.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService decorates another LLMService with a token-bucket rate limit.
// Generate blocks until the limiter grants a slot or the context is done.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// NewLLMService wraps inner so that at most requestsPerSecond Generate calls
// start per second, with bursts of up to burst. requestsPerSecond <= 0
// disables limiting.
func NewLLMService(inner driven.LLMService, requestsPerSecond float64, burst int) *LLMService {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return &LLMService{inner: inner, limiter: limiter}
}

// Generate waits for a limiter slot, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a limiter slot.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
