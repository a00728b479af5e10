package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"tutor-service/internal/models"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}

	client, err := NewClient(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.model != DefaultModel {
		t.Errorf("Expected default model %s, got %s", DefaultModel, client.model)
	}
}

func TestBuildMessagesRoleMapping(t *testing.T) {
	messages := buildMessages([]models.ChatMessage{
		{Role: models.RoleSystem, Content: "instructions"},
		{Role: models.RoleUser, Content: "question"},
		{Role: models.RoleAssistant, Content: "reply"},
		{Role: "unknown", Content: "fallback"},
	})

	wantRoles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}
	if len(messages) != len(wantRoles) {
		t.Fatalf("Expected %d messages, got %d", len(wantRoles), len(messages))
	}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Errorf("Message %d: expected role %s, got %s", i, want, messages[i].Role)
		}
	}
}

func TestRetryableClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"rate limit", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := retryable(tc.err); got != tc.want {
			t.Errorf("%s: retryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
