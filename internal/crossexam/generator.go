package crossexam

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
)

// QuestionsSchema is the structured output requested from the LLM.
var QuestionsSchema = &llm.Schema{
	Name:        "crossexam-questions",
	Description: "Personalised career counselling questions for one user",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    3,
				"maxItems":    6,
				"description": "5-6 friendly, open-ended questions",
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly and supportive career counselor.
Write 5-6 personalised, open-ended questions that help you understand the
user's skills, strengths, interests, and career aspirations. Use a positive,
encouraging tone. Ask one thing per question.`

// LLMGenerator generates questions with an llm.Provider.
type LLMGenerator struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMGenerator wraps provider.
func NewLLMGenerator(provider llm.Provider) *LLMGenerator {
	return &LLMGenerator{provider: provider, maxTokens: 1024}
}

type questionsOutput struct {
	Questions []string `json:"questions"`
}

// Questions implements Generator.
func (g *LLMGenerator) Questions(ctx context.Context, p Profile) ([]string, error) {
	ctx = llm.WithPurpose(ctx, "crossexam-questions")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildProfileMessage(p)},
		},
		Schema:      QuestionsSchema,
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("crossexam questions: %w", err)
	}

	var out questionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}
	return out.Questions, nil
}

func buildProfileMessage(p Profile) string {
	var b strings.Builder
	b.WriteString("User profile:\n")
	keys := make([]string, 0, len(p.Values))
	for k, v := range p.Values {
		if strings.TrimSpace(v) != "" && k != "resumeFile" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		b.WriteString("- (no profile details provided)\n")
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, p.Values[k])
	}
	return b.String()
}
