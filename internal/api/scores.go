package api

import (
	"context"
	"fmt"

	"github.com/abhisek/pathwise/internal/intake"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/testrunner"
)

var _ testrunner.Submitter = (*Client)(nil)

// SubmitScores posts a finished run to /submit-<instrument>.
func (c *Client) SubmitScores(ctx context.Context, sub scoring.Submission) error {
	if sub.Instrument == "" {
		return fmt.Errorf("submit scores: missing instrument")
	}
	if err := c.postJSON(ctx, "/submit-"+sub.Instrument, sub, nil); err != nil {
		return fmt.Errorf("submit %s scores: %w", sub.Test, err)
	}
	return nil
}

// SubmitInfo posts the completed intake form.
func (c *Client) SubmitInfo(ctx context.Context, sub intake.Submission) error {
	if err := c.postJSON(ctx, "/submit-info", sub, nil); err != nil {
		return fmt.Errorf("submit intake: %w", err)
	}
	return nil
}
