package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
	"github.com/studyforge/studyforge-cli/internal/logger"
)

// Extractor drives one completion call per unit and collects raw topic
// candidates with provenance. Unit calls are independent: they run on a
// bounded worker pool, and the failure of one unit never aborts the others.
// Partial coverage is preferred over total failure.
type Extractor struct {
	llm driven.LLMService
	cfg ExtractionConfig
}

// NewExtractor creates an extractor over the given completion service.
func NewExtractor(llm driven.LLMService, cfg ExtractionConfig) *Extractor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Extractor{llm: llm, cfg: cfg}
}

// Extract collects topic candidates from all units. Candidates are returned
// in unit order regardless of which completion call finished first; a unit
// whose calls all fail contributes nothing. Cancellation is cooperative at
// unit boundaries: once ctx is done, remaining units are abandoned and the
// candidates gathered so far are returned.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document, units []domain.Unit) []domain.TopicCandidate {
	logger.Section("Topic Extraction")
	logger.Debug("Units: %d, concurrency: %d", len(units), e.cfg.Concurrency)

	slots := make([][]domain.TopicCandidate, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i := range units {
		if gctx.Err() != nil {
			logger.Warn("Extraction cancelled, abandoning remaining %d units", len(units)-i)
			break
		}

		g.Go(func() error {
			slots[i] = e.extractUnit(gctx, doc, units[i])
			return nil
		})
	}

	// Workers only report results through their slot, never an error, so
	// Wait is purely a join point.
	_ = g.Wait()

	var candidates []domain.TopicCandidate
	failed := 0
	for i, slot := range slots {
		if len(slot) == 0 {
			failed++
			logger.Debug("Unit %d contributed no candidates", i)
			continue
		}
		candidates = append(candidates, slot...)
	}
	logger.Info("Extracted %d candidates from %d/%d units", len(candidates), len(units)-failed, len(units))
	return candidates
}

// extractUnit runs the retry loop for a single unit. Transport and model
// errors and malformed responses are all retried with backoff and a lowered
// temperature; exhaustion degrades to zero candidates for the unit.
func (e *Extractor) extractUnit(ctx context.Context, doc *domain.Document, unit domain.Unit) []domain.TopicCandidate {
	label := fmt.Sprintf("Part %d", unit.Index+1)
	if unit.Title != "" {
		label = unit.Title
	}
	prompt := topicExtractionPrompt(doc.Title, label, unit.Text)

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil
		}
		if attempt > 0 {
			if !sleepBackoff(ctx, attempt) {
				return nil
			}
		}

		// Retries run colder for more consistent structured output.
		temperature := e.cfg.Temperature - float64(attempt)*0.1
		if temperature < 0.1 {
			temperature = 0.1
		}

		callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
		response, err := e.llm.Generate(callCtx, prompt, driven.GenerateOptions{
			MaxTokens:   e.cfg.MaxTokens,
			Temperature: temperature,
		})
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("Unit %d attempt %d/%d failed: %v",
				unit.Index, attempt+1, e.cfg.MaxRetries+1, err)
			if !retryable(err) {
				return nil
			}
			continue
		}

		parsed := parseTopicResponse(response, unit.Index)
		if !parsed.Ok {
			logger.Warn("Unit %d attempt %d/%d returned malformed candidates: %v",
				unit.Index, attempt+1, e.cfg.MaxRetries+1, domain.ErrMalformedResponse)
			continue
		}

		logger.Debug("Unit %d: %d candidates", unit.Index, len(parsed.Candidates))
		return parsed.Candidates
	}
	return nil
}

// sleepBackoff waits before a retry, returning false if ctx was cancelled
// while waiting.
func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := time.Duration(attempt) * 500 * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// retryable reports whether an error is worth another attempt. Exported
// sentinel classes from the LLM adapters are retryable; context
// cancellation is not.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, domain.ErrLLMTransport) ||
		errors.Is(err, domain.ErrLLMModel) ||
		errors.Is(err, context.DeadlineExceeded)
}
