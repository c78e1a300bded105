// Package llm is a thin, provider-neutral layer over hosted language
// models. It is used to draft cross-examination questions locally when the
// guidance service cannot supply them.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate returns the model output. When req.Schema is set the
	// output has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single-shot prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured JSON output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the cache key for the
// compiled validator, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the output of a Generate call.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage is token accounting for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps an alias to a concrete model ID, passing unknown
// names through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
