package mocks

import (
	"context"
	"sync"
)

// StaticProvider is an insights.Provider that returns a fixed completion.
type StaticProvider struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls int
}

func (p *StaticProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.Response, p.Err
}

func (p *StaticProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
