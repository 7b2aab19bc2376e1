package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider builds the provider cfg selects, wrapped so calls are
// retried and every attempt is logged and handed to rec. rec may be nil.
// The mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, rec Recorder, log *zap.Logger) (Provider, error) {
	base, err := newBase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, isMock := base.(*MockProvider); isMock {
		return base, nil
	}
	// retry wraps logging so each attempt is recorded.
	return WithRetry(WithLogging(base, rec, log), cfg.Retry, log), nil
}

func newBase(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return p, nil
}

// WithModel returns a copy of cfg with the selected provider's model
// replaced. An empty model leaves cfg unchanged.
func (c Config) WithModel(model string) Config {
	if model == "" {
		return c
	}
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
	return c
}
