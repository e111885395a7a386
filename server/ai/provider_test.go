package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rayahq/raya/store"
)

func TestFlattenTranscript(t *testing.T) {
	tests := []struct {
		name     string
		messages []store.Message
		expected string
	}{
		{
			name:     "empty transcript",
			messages: nil,
			expected: "",
		},
		{
			name: "system turns excluded",
			messages: []store.Message{
				{Role: store.RoleSystem, Content: "Raya initialized successfully."},
				{Role: store.RoleUser, Content: "hello"},
			},
			expected: "User: hello",
		},
		{
			name: "full conversation keeps order",
			messages: []store.Message{
				{Role: store.RoleSystem, Content: "ready"},
				{Role: store.RoleUser, Content: "what's the capital of France?"},
				{Role: store.RoleAssistant, Content: "Paris."},
				{Role: store.RoleUser, Content: "and of Spain?"},
			},
			expected: "User: what's the capital of France?\nRaya: Paris.\nUser: and of Spain?",
		},
		{
			name: "multiline content stays inline",
			messages: []store.Message{
				{Role: store.RoleUser, Content: "line one\nline two"},
			},
			expected: "User: line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FlattenTranscript(tt.messages))
		})
	}
}

func TestNewConfigFromProfileDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	require.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	require.Equal(t, 3, cfg.MaxRetries)
}
