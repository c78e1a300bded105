package llm

import (
	"fmt"
	"os"
	"time"
)

// Providers lists the accepted values of Config.Provider.
var Providers = []string{"anthropic", "openai", "gemini", "openrouter", "mock"}

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string // alias or concrete model ID; empty uses the provider default
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only

	Retry   RetryConfig
	Timeout time.Duration
}

// RetryConfig controls exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultModels = map[string]string{
	"anthropic":  "claude-haiku",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-flash",
	"openrouter": "google/gemini-2.0-flash-exp",
}

// keyEnv is the conventional API key variable for each provider.
var keyEnv = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// DefaultRetry is three attempts starting at one second.
func DefaultRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2}
}

// ConfigFromEnv reads PATHWISE_LLM_PROVIDER, PATHWISE_LLM_MODEL and
// PATHWISE_LLM_API_KEY. Without an explicit provider the first provider
// whose conventional key variable is set wins. ok is false when no
// provider could be determined.
func ConfigFromEnv() (cfg Config, ok bool) {
	cfg = Config{
		Provider: os.Getenv("PATHWISE_LLM_PROVIDER"),
		Model:    os.Getenv("PATHWISE_LLM_MODEL"),
		APIKey:   os.Getenv("PATHWISE_LLM_API_KEY"),
		BaseURL:  os.Getenv("PATHWISE_LLM_BASE_URL"),
		Retry:    DefaultRetry(),
		Timeout:  30 * time.Second,
	}
	if cfg.Provider == "" {
		for _, p := range []string{"gemini", "openai", "anthropic", "openrouter"} {
			if os.Getenv(keyEnv[p]) != "" {
				cfg.Provider = p
				break
			}
		}
	}
	if cfg.Provider == "" {
		return cfg, false
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(keyEnv[cfg.Provider])
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	return cfg, true
}

// Validate checks the provider name and that a key is present when the
// provider needs one.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic", "openai", "gemini", "openrouter":
		if c.APIKey == "" {
			return fmt.Errorf("%s provider requires PATHWISE_LLM_API_KEY or %s", c.Provider, keyEnv[c.Provider])
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
