package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge-cli/internal/core/domain"
	"github.com/studyforge/studyforge-cli/internal/core/ports/driven"
)

func completionBody(content string) string {
	return `{"choices": [{"message": {"content": ` + mustJSON(content) + `}, "finish_reason": "stop"}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate(t *testing.T) {
	var got chatCompletionRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completionBody("[1, 2]")))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "local-model", APIKey: "sk-test"})
	result, err := s.Generate(context.Background(), "rank passages", driven.GenerateOptions{
		MaxTokens:   128,
		Temperature: 0.1,
	})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", result)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "local-model", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "rank passages", got.Messages[0].Content)
	assert.Equal(t, 128, got.MaxTokens)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// LM Studio style: no auth required.
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	result, err := s.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMModel)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMModel)
}

func TestGenerateTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Timeout: time.Second})
	_, err := s.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMTransport)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	assert.NoError(t, s.Ping(context.Background()))
}
