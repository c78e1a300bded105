package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/pathwise/internal/store"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewProvider builds the configured provider wrapped as
// retry -> logging -> provider, so every attempt is logged. A nil events
// repo disables logging.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "mock":
		return NewMockProvider(), nil
	case "anthropic":
		base, err = NewAnthropicProvider(cfg)
	case "openai":
		base, err = NewOpenAIProvider(cfg)
	case "openrouter":
		if cfg.BaseURL == "" {
			cfg.BaseURL = openRouterBaseURL
		}
		base, err = NewOpenAIProvider(cfg)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		base = WithLogging(base, cfg.Provider, events)
	}
	return WithRetry(base, cfg.Retry), nil
}
