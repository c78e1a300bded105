// Package crossexam runs the free-text follow-up interview: fetch
// personalised questions, collect answers, and loop on follow-ups for a
// bounded number of rounds.
package crossexam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/session"
)

// DefaultMaxRounds is the number of follow-up rounds after the first.
const DefaultMaxRounds = 2

var (
	ErrNoQuestions = errors.New("No questions available at this time.")
	ErrUnanswered  = errors.New("Please answer all questions before submitting.")
	ErrDone        = errors.New("cross-examination already complete")
)

// Evaluation is the service's reply to a set of answers.
type Evaluation struct {
	FollowupQuestions []string
	Analysis          *report.CareerReport
}

// Remote is the service side of the interview.
type Remote interface {
	GenerateQuestions(ctx context.Context, identity string) ([]string, error)
	SubmitAnswers(ctx context.Context, identity string, answers []string) (*Evaluation, error)
}

// Generator produces questions locally when the remote is unreachable.
type Generator interface {
	Questions(ctx context.Context, profile Profile) ([]string, error)
}

// Profile is what a local generator knows about the user.
type Profile struct {
	Identity string
	Values   map[string]string
}

// Service coordinates the remote, the optional local generator and the
// session state.
type Service struct {
	remote    Remote
	fallback  Generator
	sess      *session.Context
	maxRounds int
}

// Option configures a Service.
type Option func(*Service)

// WithFallback sets the generator used when the remote fails.
func WithFallback(g Generator) Option {
	return func(s *Service) { s.fallback = g }
}

// WithMaxRounds overrides DefaultMaxRounds.
func WithMaxRounds(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRounds = n
		}
	}
}

// NewService creates a Service bound to sess.
func NewService(remote Remote, sess *session.Context, opts ...Option) *Service {
	s := &Service{remote: remote, sess: sess, maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Round returns the current round, 0 for the initial questions.
func (s *Service) Round() int { return s.sess.CrossExam.Round }

// Done reports whether the interview has finished.
func (s *Service) Done() bool { return s.sess.CrossExam.Done }

// Questions returns the questions for the current round, fetching and
// caching them on first use.
func (s *Service) Questions(ctx context.Context) ([]string, error) {
	identity, err := s.sess.RequireIdentity()
	if err != nil {
		return nil, err
	}
	if s.sess.CrossExam.Done {
		return nil, ErrDone
	}
	if qs := s.sess.CrossExam.Questions; len(qs) > 0 {
		return qs, nil
	}

	qs, err := s.remote.GenerateQuestions(ctx, identity)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: question service unavailable, generating locally: %v\n", err)
		qs, err = s.fallback.Questions(ctx, Profile{Identity: identity, Values: s.sess.Intake.Values})
		if err != nil {
			return nil, fmt.Errorf("generate questions locally: %w", err)
		}
	}

	qs = clean(qs)
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	s.sess.CrossExam.Questions = qs
	s.sess.CrossExam.Answers = nil
	if err := s.sess.Save(ctx); err != nil {
		return nil, err
	}
	return qs, nil
}

// Submit sends answers for the current round. When the service asks
// follow-ups and rounds remain, they become the next round's questions;
// otherwise the interview is complete.
func (s *Service) Submit(ctx context.Context, answers []string) (*Evaluation, error) {
	identity, err := s.sess.RequireIdentity()
	if err != nil {
		return nil, err
	}
	if s.sess.CrossExam.Done {
		return nil, ErrDone
	}
	qs := s.sess.CrossExam.Questions
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	if len(answers) != len(qs) {
		return nil, ErrUnanswered
	}
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return nil, ErrUnanswered
		}
	}

	ev, err := s.remote.SubmitAnswers(ctx, identity, answers)
	if err != nil {
		// Keep the typed answers so a retry does not lose them.
		s.sess.CrossExam.Answers = answers
		if saveErr := s.sess.Save(ctx); saveErr != nil {
			return nil, errors.Join(err, fmt.Errorf("save answers: %w", saveErr))
		}
		return nil, err
	}

	follow := clean(ev.FollowupQuestions)
	st := &s.sess.CrossExam
	st.Answers = nil
	if len(follow) > 0 && st.Round < s.maxRounds {
		st.Round++
		st.Questions = follow
	} else {
		st.Questions = nil
		st.Done = true
	}
	if err := s.sess.Save(ctx); err != nil {
		return nil, err
	}
	return ev, nil
}

// clean drops blank lines and list numbering such as "1." or "2)".
func clean(qs []string) []string {
	var out []string
	for _, q := range qs {
		q = strings.TrimSpace(q)
		q = strings.TrimLeft(q, "-*• ")
		if i := strings.IndexAny(q, ".)"); i > 0 && i <= 3 && isDigits(q[:i]) {
			q = strings.TrimSpace(q[i+1:])
		}
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
