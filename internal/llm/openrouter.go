package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider returns a Provider for OpenRouter. Model IDs are
// "vendor/model" and are sent as given.
func NewOpenRouterProvider(cfg OpenRouterConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newChatCompletions("openrouter", cfg.APIKey, baseURL, cfg.Model), nil
}
