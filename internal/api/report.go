package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/abhisek/pathwise/internal/report"
)

var _ report.Client = (*Client)(nil)

type identityRequest struct {
	Email string `json:"email"`
}

// StartReport asks the service to generate the final report.
func (c *Client) StartReport(ctx context.Context, identity string) (string, error) {
	var resp struct {
		TaskID   string `json:"task_id"`
		JobID    string `json:"jobId"`
		JobIDAlt string `json:"job_id"`
	}
	if err := c.postJSON(ctx, "/finalize-career-path", identityRequest{Email: identity}, &resp); err != nil {
		return "", fmt.Errorf("start report: %w", err)
	}
	for _, id := range []string{resp.TaskID, resp.JobID, resp.JobIDAlt} {
		if id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("start report: %w: no job id", ErrDecode)
}

// statusResponse accepts both the snake_case and camelCase spellings.
type statusResponse struct {
	Status         string          `json:"status"`
	CurrentStage   json.RawMessage `json:"current_stage"`
	CurrentStageCC json.RawMessage `json:"currentStage"`
	PartialReport  json.RawMessage `json:"partial_report"`
	PartialResult  json.RawMessage `json:"partialResult"`
	FinalReport    json.RawMessage `json:"final_report"`
	FinalResult    json.RawMessage `json:"finalResult"`
	Error          string          `json:"error"`
	ErrorMessage   string          `json:"errorMessage"`
}

// ReportStatus fetches the state of a report job.
func (c *Client) ReportStatus(ctx context.Context, jobID string) (*report.JobStatus, error) {
	var resp statusResponse
	path := "/finalize-career-path/status/" + url.PathEscape(jobID)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("report status: %w", err)
	}
	if resp.Status == "" && len(pick(resp.CurrentStage, resp.CurrentStageCC)) == 0 {
		return nil, fmt.Errorf("report status: %w: no status or stage", ErrDecode)
	}

	st := &report.JobStatus{
		Status:        report.ParseStatus(resp.Status),
		CurrentStage:  parseStage(pick(resp.CurrentStage, resp.CurrentStageCC)),
		PartialResult: pick(resp.PartialReport, resp.PartialResult),
		FinalResult:   pick(resp.FinalReport, resp.FinalResult),
		ErrorMessage:  resp.Error,
	}
	if st.ErrorMessage == "" {
		st.ErrorMessage = resp.ErrorMessage
	}
	return st, nil
}

func pick(a, b json.RawMessage) json.RawMessage {
	if len(a) > 0 && string(a) != "null" {
		return a
	}
	return b
}

// parseStage accepts a number or a numeric string. Anything else is 0.
func parseStage(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil {
		return int(n)
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return 0
}
