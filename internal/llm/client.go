package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"tutor-service/internal/models"
)

const (
	DefaultModel = "gpt-4o-mini"

	requestTimeout = 60 * time.Second
)

// ErrOracle wraps every failure coming back from the completion provider
// so handlers can map it to an upstream error response.
var ErrOracle = errors.New("oracle request failed")

// Oracle produces a single assistant completion for a conversation.
type Oracle interface {
	Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client talks to OpenAI or any OpenAI-compatible endpoint via BaseURL.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}, nil
}

// Complete sends the conversation and returns the assistant's reply.
// Transient failures (timeouts, rate limits, provider 5xx) get one retry
// before the error is surfaced wrapped in ErrOracle.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(messages),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	content, err := c.complete(ctx, req)
	if err != nil && retryable(err) && ctx.Err() == nil {
		content, err = c.complete(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracle, err)
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(reqCtx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(messages []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case models.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case models.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return out
}

func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return false
}
