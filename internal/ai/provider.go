package ai

import (
	"context"
	"fmt"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewProvider builds the named provider. An empty apiKey yields a nil
// generator, which callers treat as "generation disabled". The returned
// close func is never nil.
func NewProvider(ctx context.Context, name, apiKey, model string) (TextGenerator, func(), error) {
	noop := func() {}
	if apiKey == "" {
		return nil, noop, nil
	}
	switch name {
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, apiKey, model)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model), noop, nil
	default:
		return nil, noop, fmt.Errorf("ai: unknown provider %q", name)
	}
}
