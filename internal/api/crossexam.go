package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/pathwise/internal/crossexam"
	"github.com/abhisek/pathwise/internal/report"
)

var _ crossexam.Remote = (*Client)(nil)

// GenerateQuestions fetches personalised cross-examination questions.
func (c *Client) GenerateQuestions(ctx context.Context, identity string) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := c.postJSON(ctx, "/generate-questions", identityRequest{Email: identity}, &resp); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return resp.Questions, nil
}

// SubmitAnswers posts free-text answers and returns any follow-ups.
func (c *Client) SubmitAnswers(ctx context.Context, identity string, answers []string) (*crossexam.Evaluation, error) {
	req := struct {
		Email   string   `json:"email"`
		Answers []string `json:"answers"`
	}{identity, answers}

	var resp struct {
		FollowupQuestions  []string        `json:"followupQuestions"`
		FollowupQuestionsS []string        `json:"followup_questions"`
		Analysis           json.RawMessage `json:"analysis"`
	}
	if err := c.postJSON(ctx, "/submit-answers", req, &resp); err != nil {
		return nil, fmt.Errorf("submit answers: %w", err)
	}

	ev := &crossexam.Evaluation{FollowupQuestions: resp.FollowupQuestions}
	if len(ev.FollowupQuestions) == 0 {
		ev.FollowupQuestions = resp.FollowupQuestionsS
	}
	if len(resp.Analysis) > 0 {
		ev.Analysis = report.Parse(resp.Analysis)
	}
	return ev, nil
}
