package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/dmaceachern/jarvis-api/internal/logger"
	"go.uber.org/zap"
)

// ChatProvider implements TextProvider against any OpenAI-compatible chat
// endpoint. Pointing the base URL at an Ollama server's /v1 path is the
// default deployment.
type ChatProvider struct {
	client *openai.Client
	model  string
}

// NewChatProvider creates a chat provider for the given endpoint and model.
// The API key may be empty for local servers that do not check it.
func NewChatProvider(baseURL, apiKey, model string) *ChatProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &ChatProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Reply generates an assistant response for the user text, conditioned on the
// persona system prompt and recent conversation history.
func (p *ChatProvider) Reply(ctx context.Context, persona string, history []Message, userText string) (string, error) {
	if userText == "" {
		return "", errors.New("user text is empty")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: persona,
	})
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       p.model,
			Messages:    msgs,
			MaxTokens:   300,
			Temperature: 0.7,
		})
		if err == nil {
			if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
				return "", errors.New("chat API returned an empty response")
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return "", fmt.Errorf("chat API error: %w", err)
		}

		logger.ForComponent("chat").Warn("chat API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return "", fmt.Errorf("chat API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyOpenAIError determines whether an OpenAI-compatible API error is
// retryable and the base wait duration before the next attempt.
func classifyOpenAIError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429:
			return true, 2 * time.Second
		case 500, 502, 503:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}
