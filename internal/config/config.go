// Package config loads client settings from PATHWISE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the pathwise client.
type Config struct {
	API        APIConfig
	OAuth      OAuthConfig
	Report     ReportConfig
	DBPath     string // empty means store.DefaultDBPath
	Instrument InstrumentConfig
	DevServer  DevServerConfig
}

// APIConfig points at the guidance service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// OAuthConfig enables client-credentials auth when all fields are set.
type OAuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Enabled reports whether any OAuth setting was provided.
func (o OAuthConfig) Enabled() bool {
	return o.TokenURL != "" || o.ClientID != "" || o.ClientSecret != ""
}

// ReportConfig controls report polling.
type ReportConfig struct {
	PollInterval time.Duration
}

// InstrumentConfig locates custom instrument banks.
type InstrumentConfig struct {
	Dir string
}

// DevServerConfig configures `pathwise devserver`.
type DevServerConfig struct {
	Addr string
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var bad []error
	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("PATHWISE_API_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("PATHWISE_API_TIMEOUT", 30*time.Second, &bad),
		},
		OAuth: OAuthConfig{
			TokenURL:     getEnv("PATHWISE_OAUTH_TOKEN_URL", ""),
			ClientID:     getEnv("PATHWISE_OAUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("PATHWISE_OAUTH_CLIENT_SECRET", ""),
			Scopes:       getEnvAsList("PATHWISE_OAUTH_SCOPES"),
		},
		Report: ReportConfig{
			PollInterval: getEnvAsDuration("PATHWISE_POLL_INTERVAL", 1500*time.Millisecond, &bad),
		},
		DBPath:     getEnv("PATHWISE_DB_PATH", ""),
		Instrument: InstrumentConfig{Dir: getEnv("PATHWISE_INSTRUMENT_DIR", "")},
		DevServer:  DevServerConfig{Addr: getEnv("PATHWISE_DEV_ADDR", ":8000")},
	}
	if len(bad) > 0 {
		return nil, errors.Join(bad...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that would only fail later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Report.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Report.PollInterval)
	}
	if o := c.OAuth; o.Enabled() && (o.TokenURL == "" || o.ClientID == "" || o.ClientSecret == "") {
		return errors.New("OAuth needs PATHWISE_OAUTH_TOKEN_URL, PATHWISE_OAUTH_CLIENT_ID and PATHWISE_OAUTH_CLIENT_SECRET together")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration, bad *[]error) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*bad = append(*bad, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvAsList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
