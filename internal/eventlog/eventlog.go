// Package eventlog turns runner and poller callbacks into durable store
// events. Recording never fails the caller; write errors become warnings.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/store"
)

// Recorder appends events to an EventRepo. A nil repo records nothing.
type Recorder struct {
	events store.EventRepo
	warn   io.Writer
}

// New creates a Recorder writing warnings to stderr.
func New(events store.EventRepo) *Recorder {
	return &Recorder{events: events, warn: os.Stderr}
}

// WithWarnings redirects warnings, e.g. to io.Discard while a full-screen
// UI owns the terminal.
func (r *Recorder) WithWarnings(w io.Writer) *Recorder {
	cp := *r
	cp.warn = w
	return &cp
}

// Submission records one score submission attempt. err is the submit
// result; nil means the service accepted the scores.
func (r *Recorder) Submission(ctx context.Context, sub scoring.Submission, err error) {
	if r == nil || r.events == nil {
		return
	}
	scores, mErr := json.Marshal(sub.Scores)
	if mErr != nil {
		scores = nil
	}
	ev := store.SubmissionEventData{
		RunID:      uuid.New().String(),
		Instrument: sub.Instrument,
		Identity:   sub.Identity,
		Scores:     scores,
		Success:    err == nil,
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	if logErr := r.events.AppendSubmission(context.WithoutCancel(ctx), ev); logErr != nil {
		fmt.Fprintf(r.warn, "Warning: failed to log submission: %v\n", logErr)
	}
}

// ReportObserver returns a poller observer that records state and stage
// changes, then forwards every snapshot to next (which may be nil).
// Repeated progress updates within one stage are not recorded.
func (r *Recorder) ReportObserver(next func(report.Snapshot)) func(report.Snapshot) {
	var (
		mu        sync.Mutex
		lastState = report.StateIdle
		lastStage = -1
	)
	return func(s report.Snapshot) {
		mu.Lock()
		changed := s.State != lastState || s.Stage != lastStage
		lastState, lastStage = s.State, s.Stage
		mu.Unlock()

		if changed {
			r.report(s)
		}
		if next != nil {
			next(s)
		}
	}
}

func (r *Recorder) report(s report.Snapshot) {
	if r == nil || r.events == nil {
		return
	}
	ev := store.ReportEventData{
		JobID: s.JobID,
		State: s.State.String(),
		Stage: s.Stage,
		Polls: s.Polls,
	}
	if s.Err != nil {
		ev.ErrorMessage = s.Err.Error()
	}
	if err := r.events.AppendReport(context.Background(), ev); err != nil {
		fmt.Fprintf(r.warn, "Warning: failed to log report event: %v\n", err)
	}
}
