// Package testrunner drives one user through an instrument, one question
// at a time, and submits the scored result when the last question is
// answered.
package testrunner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/scoring"
)

var (
	// ErrNoIdentity is returned when a run finishes without an identity.
	// The summaries are still computed; nothing is transmitted.
	ErrNoIdentity = errors.New("no identity configured: set one with `pathwise identity set <email>`")

	// ErrFinished is returned for any input after the run has finished.
	ErrFinished = errors.New("test run already finished")

	// ErrInvalidOption is returned when an option index is out of range.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidValue is returned when an answer value is NaN or infinite.
	ErrInvalidValue = errors.New("invalid answer value")

	// ErrTooManyAnswers is returned by Resume when a draft is longer than
	// the instrument.
	ErrTooManyAnswers = errors.New("draft has more answers than questions")
)

// Submitter transmits a finished run's scores.
type Submitter interface {
	SubmitScores(ctx context.Context, sub scoring.Submission) error
}

// Phase is the coarse state of a run.
type Phase int

const (
	PhasePresenting Phase = iota
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Runner is the state machine for a single run. It is not safe for
// concurrent input; only the submit side effect runs on its own goroutine.
type Runner struct {
	inst      *instrument.Instrument
	identity  string
	submitter Submitter
	timeout   time.Duration

	onSubmitted func(scoring.Submission, error)

	answers   []scoring.Answer
	summaries []scoring.CategorySummary
	submitted sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithIdentity sets the identity attached to the submission.
func WithIdentity(identity string) Option {
	return func(r *Runner) { r.identity = identity }
}

// WithSubmitter sets the destination for finished runs.
func WithSubmitter(s Submitter) Option {
	return func(r *Runner) { r.submitter = s }
}

// WithSubmitTimeout bounds the background submit call.
func WithSubmitTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// OnSubmitted registers a callback invoked from the submit goroutine.
func OnSubmitted(fn func(scoring.Submission, error)) Option {
	return func(r *Runner) { r.onSubmitted = fn }
}

// New starts a fresh run at the first question.
func New(inst *instrument.Instrument, opts ...Option) *Runner {
	r := &Runner{
		inst:    inst,
		timeout: 30 * time.Second,
		answers: make([]scoring.Answer, 0, inst.Len()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resume restores a run from previously recorded answers. A draft that
// already covers every question is not accepted; finish it by starting over.
func Resume(inst *instrument.Instrument, answers []scoring.Answer, opts ...Option) (*Runner, error) {
	if len(answers) >= inst.Len() {
		return nil, fmt.Errorf("resume %s: %w", inst.Name, ErrTooManyAnswers)
	}
	r := New(inst, opts...)
	for i, a := range answers {
		if a.Category != inst.Questions[i].Category {
			return nil, fmt.Errorf("resume %s: answer %d is for %q, question is %q",
				inst.Name, i+1, a.Category, inst.Questions[i].Category)
		}
	}
	r.answers = append(r.answers, answers...)
	return r, nil
}

// Instrument returns the bank being run.
func (r *Runner) Instrument() *instrument.Instrument { return r.inst }

// Phase returns the current phase.
func (r *Runner) Phase() Phase {
	if len(r.answers) == r.inst.Len() {
		return PhaseFinished
	}
	return PhasePresenting
}

// Finished reports whether every question has been answered or skipped.
func (r *Runner) Finished() bool { return r.Phase() == PhaseFinished }

// Index returns the position of the presented question. In the finished
// phase it equals the number of questions.
func (r *Runner) Index() int { return len(r.answers) }

// Current returns the presented question.
func (r *Runner) Current() (instrument.Question, bool) {
	if r.Finished() {
		return instrument.Question{}, false
	}
	return r.inst.Questions[len(r.answers)], true
}

// Answers returns a copy of the answers recorded so far.
func (r *Runner) Answers() []scoring.Answer {
	return append([]scoring.Answer(nil), r.answers...)
}

// Summaries returns the aggregate once finished, nil before.
func (r *Runner) Summaries() []scoring.CategorySummary {
	return r.summaries
}

// Answer records value for the presented question.
func (r *Runner) Answer(ctx context.Context, value float64) (Phase, error) {
	q, ok := r.Current()
	if !ok {
		return PhaseFinished, ErrFinished
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return PhasePresenting, fmt.Errorf("%w: %v", ErrInvalidValue, value)
	}
	return r.record(ctx, scoring.Scored(q.Category, value))
}

// Choose records the score of the option at idx.
func (r *Runner) Choose(ctx context.Context, idx int) (Phase, error) {
	q, ok := r.Current()
	if !ok {
		return PhaseFinished, ErrFinished
	}
	if idx < 0 || idx >= len(q.Options) {
		return PhasePresenting, fmt.Errorf("%w: %d of %d", ErrInvalidOption, idx, len(q.Options))
	}
	return r.record(ctx, scoring.Scored(q.Category, q.Options[idx].Score))
}

// Skip records a skip marker for the presented question.
func (r *Runner) Skip(ctx context.Context) (Phase, error) {
	q, ok := r.Current()
	if !ok {
		return PhaseFinished, ErrFinished
	}
	return r.record(ctx, scoring.Skip(q.Category))
}

func (r *Runner) record(ctx context.Context, a scoring.Answer) (Phase, error) {
	r.answers = append(r.answers, a)
	if !r.Finished() {
		return PhasePresenting, nil
	}
	r.summaries = scoring.Summarize(r.answers, r.inst.Thresholds)
	return PhaseFinished, r.finish(ctx)
}

// finish fires the submission exactly once. The caller's context only
// contributes values; the submit outlives the input that triggered it.
func (r *Runner) finish(ctx context.Context) error {
	if r.identity == "" {
		return ErrNoIdentity
	}
	if r.submitter == nil {
		return nil
	}

	sub := scoring.NewSubmission(r.identity, r.inst.Name, r.inst.Test, r.summaries)
	r.submitted.Do(func() {
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		go func() {
			defer cancel()
			err := r.submitter.SubmitScores(bg, sub)
			if r.onSubmitted != nil {
				r.onSubmitted(sub, err)
			}
		}()
	})
	return nil
}
