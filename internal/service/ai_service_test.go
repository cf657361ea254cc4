package service

import (
	"codementor_backend/internal/config"
	"codementor_backend/pkg/llm"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_CompleteJSON(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		kind     ExternalCallKind
	}{
		{name: "no provider", provider: nil, kind: ExternalUnavailable},
		{name: "empty queue", provider: llm.NewMockProvider(), kind: ExternalUnavailable},
		{name: "blank content", provider: llm.NewMockProvider(llm.MockResponse{Content: "\n"}), kind: ExternalEmpty},
		{name: "empty response error", provider: llm.NewMockProvider(llm.MockResponse{Err: llm.ErrEmptyResponse}), kind: ExternalEmpty},
		{name: "invalid response", provider: llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("no choices")}}), kind: ExternalMalformed},
		{name: "rate limited", provider: llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}), kind: ExternalUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAIServiceWithProvider(tt.provider, config.AIConfig{TimeoutSeconds: 1})
			_, err := svc.CompleteJSON(context.Background(), "sys", "prompt")
			var ext *ExternalCallError
			require.True(t, errors.As(err, &ext), "got %v", err)
			assert.Equal(t, tt.kind, ext.Kind)
		})
	}
}

func TestAIService_PassesMaxTokens(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: `{"ok":true}`})
	svc := NewAIServiceWithProvider(mock, config.AIConfig{MaxTokens: 1234})

	text, err := svc.CompleteJSON(context.Background(), "sys", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	require.Len(t, mock.Calls, 1)
	assert.Equal(t, 1234, mock.Calls[0].MaxTokens)
	assert.True(t, mock.Calls[0].JSON)
	assert.Equal(t, "sys", mock.Calls[0].System)
}

func TestAIService_Reload(t *testing.T) {
	svc := NewAIService(context.Background(), config.AIConfig{Provider: "none"})
	assert.False(t, svc.Available())

	svc.Reload(context.Background(), config.AIConfig{Provider: "openai", APIKey: "sk-test"})
	assert.True(t, svc.Available())

	svc.Reload(context.Background(), config.AIConfig{Provider: "openai"})
	assert.False(t, svc.Available())
}
