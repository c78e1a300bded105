package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/store"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	r1, err := m.Generate(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(r1.Content))
	assert.Equal(t, 10, r1.Usage.InputTokens)

	r2, err := m.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(r2.Content))

	_, err = m.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, "sys", m.Calls[0].System)
	assert.Equal(t, "mock", m.ModelID())
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"name":"x"}`)})
	_, err := m.Generate(context.Background(), Request{Schema: personSchema()})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "crossexam-questions", PurposeFrom(WithPurpose(ctx, "crossexam-questions")))
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", APIKey: "k"}, false},
		{"openrouter with key", Config{Provider: "openrouter", APIKey: "k"}, false},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"mock", Config{Provider: "mock"}, false},
		{"unknown", Config{Provider: "bard"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	for _, k := range []string{"PATHWISE_LLM_PROVIDER", "PATHWISE_LLM_MODEL", "PATHWISE_LLM_API_KEY", "PATHWISE_LLM_BASE_URL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := ConfigFromEnv()
	assert.False(t, ok)

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	cfg, ok := ConfigFromEnv()
	require.True(t, ok)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-openai", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)

	t.Setenv("PATHWISE_LLM_PROVIDER", "anthropic")
	t.Setenv("PATHWISE_LLM_API_KEY", "sk-ant")
	t.Setenv("PATHWISE_LLM_MODEL", "claude-sonnet")
	cfg, ok = ConfigFromEnv()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.APIKey)
	assert.Equal(t, "claude-sonnet", cfg.Model)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "openai"}, nil)
	assert.Error(t, err)
}

type recordingEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.got = append(r.got, d)
	return nil
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	ev := &recordingEvents{}
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 3, OutputTokens: 4}})
	p := WithLogging(m, "mock", ev)

	ctx := WithPurpose(context.Background(), "test")
	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, ev.got, 2)
	assert.True(t, ev.got[0].Success)
	assert.Equal(t, "test", ev.got[0].Purpose)
	assert.Equal(t, 3, ev.got[0].InputTokens)
	assert.Equal(t, 4, ev.got[0].OutputTokens)
	assert.False(t, ev.got[1].Success)
	assert.NotEmpty(t, ev.got[1].ErrorMessage)
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5-20251001", resolveModel("claude-haiku", anthropicAliases))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiAliases))
	assert.Equal(t, "custom-model", resolveModel("custom-model", geminiAliases))
}
