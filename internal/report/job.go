package report

import (
	"context"
	"encoding/json"
	"strings"
)

// Status is the server-side state of a report job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus normalizes the status strings the service has used.
// Anything unrecognized is treated as still running.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "queued":
		return StatusPending
	case "completed", "complete", "done", "success", "succeeded":
		return StatusCompleted
	case "failed", "error", "failure":
		return StatusFailed
	default:
		return StatusInProgress
	}
}

// Terminal reports whether no further polling is needed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// JobStatus is one status response.
type JobStatus struct {
	Status        Status
	CurrentStage  int
	PartialResult json.RawMessage
	FinalResult   json.RawMessage
	ErrorMessage  string
}

// Client is the remote side of the report workflow.
type Client interface {
	StartReport(ctx context.Context, identity string) (jobID string, err error)
	ReportStatus(ctx context.Context, jobID string) (*JobStatus, error)
}

// Stages are the progress labels indexed by JobStatus.CurrentStage.
var Stages = []string{
	"Analyzing your answers...",
	"Analyzing your resume / aptitude assessment...",
	"Detecting skill gaps...",
	"Generating career recommendations...",
	"Compiling final summary...",
}

// StageLabel returns the label for stage, clamped to the known range.
func StageLabel(stage int) string {
	if stage < 0 {
		stage = 0
	}
	if stage >= len(Stages) {
		stage = len(Stages) - 1
	}
	return Stages[stage]
}
