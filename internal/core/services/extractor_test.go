package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

func testUnits(n int) []domain.Unit {
	units := make([]domain.Unit, n)
	pos := 0
	for i := range units {
		text := fmt.Sprintf("unit %d text", i)
		units[i] = domain.Unit{Text: text, Start: pos, End: pos + len(text), Index: i}
		pos += len(text)
	}
	return units
}

func topicJSON(title string) string {
	return fmt.Sprintf(`[{"title": %q, "description": "about %s", "importance": "Medium"}]`, title, title)
}

func TestExtractCollectsInUnitOrder(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			// Recover the unit index from the prompt to answer out of order.
			for i := 0; i < 6; i++ {
				if strings.Contains(prompt, fmt.Sprintf("unit %d text", i)) {
					time.Sleep(time.Duration(5-i) * time.Millisecond)
					return topicJSON(fmt.Sprintf("Topic %d", i)), nil
				}
			}
			return "", fmt.Errorf("unexpected prompt")
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 3, MaxRetries: 0})

	doc := &domain.Document{Title: "Test Doc"}
	candidates := e.Extract(context.Background(), doc, testUnits(6))

	require.Len(t, candidates, 6)
	for i, c := range candidates {
		assert.Equal(t, fmt.Sprintf("Topic %d", i), c.Title)
		assert.Equal(t, i, c.SourceUnit)
	}
}

func TestExtractToleratesPartialFailures(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			for i := 0; i < 10; i++ {
				if strings.Contains(prompt, fmt.Sprintf("unit %d text", i)) {
					if i == 3 || i == 7 {
						return "", fmt.Errorf("request: %w", domain.ErrLLMTransport)
					}
					return topicJSON(fmt.Sprintf("Topic %d", i)), nil
				}
			}
			return "", fmt.Errorf("unexpected prompt")
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 4, MaxRetries: 1})

	doc := &domain.Document{Title: "Test Doc"}
	candidates := e.Extract(context.Background(), doc, testUnits(10))

	// Two units fail all their attempts; the other eight still contribute.
	require.Len(t, candidates, 8)
	seen := make(map[int]bool)
	for _, c := range candidates {
		seen[c.SourceUnit] = true
	}
	assert.False(t, seen[3])
	assert.False(t, seen[7])
}

func TestExtractRetriesWithColderTemperature(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			if call < 2 {
				return "not json at all", nil
			}
			return topicJSON("Recovered Topic"), nil
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 1, MaxRetries: 2, Temperature: 0.3})

	doc := &domain.Document{Title: "Test Doc"}
	candidates := e.Extract(context.Background(), doc, testUnits(1))

	require.Len(t, candidates, 1)
	assert.Equal(t, "Recovered Topic", candidates[0].Title)

	require.Equal(t, 3, llm.callCount())
	assert.InDelta(t, 0.3, llm.opts[0].Temperature, 0.001)
	assert.InDelta(t, 0.2, llm.opts[1].Temperature, 0.001)
	assert.InDelta(t, 0.1, llm.opts[2].Temperature, 0.001)
}

func TestExtractTemperatureFloor(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			if call < 3 {
				return "still not json", nil
			}
			return topicJSON("Finally"), nil
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 1, MaxRetries: 3, Temperature: 0.3})

	e.Extract(context.Background(), &domain.Document{Title: "Doc"}, testUnits(1))

	// Temperature never drops below the floor however many retries run.
	require.Equal(t, 4, llm.callCount())
	assert.InDelta(t, 0.1, llm.opts[3].Temperature, 0.001)
}

func TestExtractGivesUpOnNonRetryableError(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			return "", fmt.Errorf("bad request body")
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 1, MaxRetries: 3})

	candidates := e.Extract(context.Background(), &domain.Document{Title: "Doc"}, testUnits(1))
	assert.Empty(t, candidates)
	assert.Equal(t, 1, llm.callCount(), "non-retryable errors must not be retried")
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := &mockLLM{}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 2, MaxRetries: 0})

	candidates := e.Extract(ctx, &domain.Document{Title: "Doc"}, testUnits(5))
	assert.Empty(t, candidates)
}

func TestExtractUsesSectionTitleInPrompt(t *testing.T) {
	var captured string
	llm := &mockLLM{
		generateFunc: func(call int, prompt string, opts driven.GenerateOptions) (string, error) {
			captured = prompt
			return topicJSON("Topic"), nil
		},
	}
	e := NewExtractor(llm, ExtractionConfig{Concurrency: 1, MaxRetries: 0})

	units := testUnits(1)
	units[0].Title = "Chapter 4 The Long Winter"
	e.Extract(context.Background(), &domain.Document{Title: "Doc"}, units)

	assert.Contains(t, captured, "Chapter 4 The Long Winter")
}
