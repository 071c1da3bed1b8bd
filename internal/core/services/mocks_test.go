package services

import (
	"context"
	"sync"

	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

// mockLLM is a scriptable LLMService for service tests. generateFunc
// receives the call index (0-based) so tests can vary behaviour per call.
type mockLLM struct {
	mu           sync.Mutex
	calls        int
	prompts      []string
	opts         []driven.GenerateOptions
	generateFunc func(call int, prompt string, opts driven.GenerateOptions) (string, error)
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	call := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	fn := m.generateFunc
	m.mu.Unlock()

	if fn == nil {
		return "[]", nil
	}
	return fn(call, prompt, opts)
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
