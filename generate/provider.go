package generate

import (
	"context"
	"errors"
	"fmt"

	"albadit/joker/config"
)

// NoTextMessage is shown when there is nothing to send
const NoTextMessage = "No text provided"

var (
	// ErrNoText is returned for blank input; no request is made
	ErrNoText = errors.New("no text provided")
	// ErrRemoteCall wraps transport and API failures
	ErrRemoteCall = errors.New("remote call failed")
)

// Provider defines the interface for text generation backends
type Provider interface {
	Name() string
	Generate(ctx context.Context, text string) (string, error)
}

// NewProvider creates a provider based on configuration
func NewProvider(cfg config.OpenAIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is required for the OpenAI provider")
	}
	return NewOpenAIProvider(cfg), nil
}

// Display converts a generation result into the text shown to the user.
// Failures become a readable message instead of being dropped.
func Display(text string, err error) string {
	switch {
	case err == nil:
		return text
	case errors.Is(err, ErrNoText):
		return NoTextMessage
	default:
		return fmt.Sprintf("Error generating response: %v", err)
	}
}
