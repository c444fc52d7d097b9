package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"albadit/joker/config"
)

// OpenAIProvider generates responses with the chat completions API
type OpenAIProvider struct {
	client       *openai.Client
	model        string
	promptSystem string
	promptUser   string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        cfg.Model,
		promptSystem: cfg.PromptSystem,
		promptUser:   cfg.PromptUser,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate sends text with the configured prompts and returns the reply
func (p *OpenAIProvider) Generate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.model,
		Messages: p.messages(text),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: API error (status %d): %s", ErrRemoteCall, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", ErrRemoteCall, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrRemoteCall)
	}

	return resp.Choices[0].Message.Content, nil
}

// messages builds the system and user messages. A blank system prompt is
// omitted; the user prompt prefixes the text.
func (p *OpenAIProvider) messages(text string) []openai.ChatCompletionMessage {
	var msgs []openai.ChatCompletionMessage
	if strings.TrimSpace(p.promptSystem) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.promptSystem,
		})
	}

	content := text
	if prefix := strings.TrimSpace(p.promptUser); prefix != "" {
		content = prefix + " " + text
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	})

	return msgs
}
