// Package insights generates AI commentary for normalized feedback metrics.
// The returned content is opaque to the rest of the system.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownProvider = errors.New("insights: unknown provider")
	ErrMissingAPIKey   = errors.New("insights: api key not set")
	ErrEmptyResponse   = errors.New("insights: empty model response")
)

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating providers. It is a package-level
// variable so tests can swap in a fake; restore it with t.Cleanup.
var NewProvider func(name, model string) (Provider, error) = defaultNewProvider

func defaultNewProvider(name, model string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini", "google":
		if model == "" {
			model = "gemini-2.5-flash"
		}
		return newGoogleProvider(model)
	case "openai":
		if model == "" {
			model = "gpt-4o-mini"
		}
		return newOpenAIProvider(model)
	case "anthropic":
		if model == "" {
			model = "claude-3-5-haiku-latest"
		}
		return newAnthropicProvider(model)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}
