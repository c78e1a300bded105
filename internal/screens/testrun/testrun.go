// Package testrun presents an instrument one question at a time. Each
// answer is saved as a draft so an interrupted run resumes where it left
// off; the last answer hands over to the result screen.
package testrun

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/eventlog"
	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/result"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/testrunner"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// draftLoadedMsg is sent once the saved draft, if any, has been read.
type draftLoadedMsg struct {
	Answers []scoring.Answer
	Err     error
}

// TestScreen implements screen.Screen for an active run.
type TestScreen struct {
	inst      *instrument.Instrument
	sess      *session.Context
	submitter testrunner.Submitter
	recorder  *eventlog.Recorder

	runner    *testrunner.Runner
	options   components.Options
	submitted chan error
	resumed   int
	warning   string
}

var _ screen.Screen = (*TestScreen)(nil)
var _ screen.KeyHintProvider = (*TestScreen)(nil)

// New creates a run of inst. A nil submitter keeps the run offline.
func New(inst *instrument.Instrument, sess *session.Context, submitter testrunner.Submitter, recorder *eventlog.Recorder) *TestScreen {
	return &TestScreen{
		inst:      inst,
		sess:      sess,
		submitter: submitter,
		recorder:  recorder,
	}
}

func (s *TestScreen) Init() tea.Cmd {
	return func() tea.Msg {
		answers, _, err := s.sess.LoadTestDraft(context.Background(), s.inst)
		return draftLoadedMsg{Answers: answers, Err: err}
	}
}

func (s *TestScreen) Title() string {
	return s.inst.Title
}

func (s *TestScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-9", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Choose"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Save & exit"},
	}
}

// Runner exposes the state machine, nil until the draft is loaded.
func (s *TestScreen) Runner() *testrunner.Runner {
	return s.runner
}

func (s *TestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case draftLoadedMsg:
		s.start(msg)
		return s, nil

	case tea.KeyMsg:
		if s.runner == nil {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TestScreen) start(msg draftLoadedMsg) {
	opts := []testrunner.Option{testrunner.WithIdentity(s.sess.Identity)}
	if s.submitter != nil {
		s.submitted = make(chan error, 1)
		opts = append(opts,
			testrunner.WithSubmitter(s.submitter),
			testrunner.OnSubmitted(func(sub scoring.Submission, err error) {
				s.recorder.Submission(context.Background(), sub, err)
				s.submitted <- err
			}),
		)
	}

	if msg.Err != nil {
		s.warning = "Could not load your saved answers; starting over."
	}
	if len(msg.Answers) > 0 {
		r, err := testrunner.Resume(s.inst, msg.Answers, opts...)
		if err == nil {
			s.runner = r
			s.resumed = len(msg.Answers)
		} else {
			s.warning = "Saved answers no longer match this test; starting over."
		}
	}
	if s.runner == nil {
		s.runner = testrunner.New(s.inst, opts...)
	}
	s.present()
}

func (s *TestScreen) present() {
	q, ok := s.runner.Current()
	if !ok {
		return
	}
	labels := make([]string, len(q.Options))
	for i, o := range q.Options {
		labels[i] = o.Label
	}
	s.options = components.NewOptions(labels)
}

func (s *TestScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	ctx := context.Background()

	var (
		phase testrunner.Phase
		err   error
	)
	switch msg.String() {
	case "s", "S":
		phase, err = s.runner.Skip(ctx)
	default:
		s.options, _ = s.options.Update(msg)
		idx, ok := s.options.Take()
		if !ok {
			return s, nil
		}
		phase, err = s.runner.Choose(ctx, idx)
	}

	if phase == testrunner.PhaseFinished {
		return s, s.finish(err)
	}
	if err != nil {
		s.warning = err.Error()
		return s, nil
	}

	// Saved inline so drafts land in answer order.
	if err := s.sess.SaveTestDraft(ctx, s.inst, s.runner.Answers()); err != nil {
		s.warning = "Could not save your progress: " + err.Error()
	} else {
		s.warning = ""
	}
	s.present()
	return s, nil
}

// finish drops the draft and swaps in the result screen. finishErr is
// the runner's finish error, e.g. a missing identity.
func (s *TestScreen) finish(finishErr error) tea.Cmd {
	var submitted <-chan error
	if s.submitted != nil && finishErr == nil {
		submitted = s.submitted
	}
	res := result.New(s.inst, s.runner.Summaries(), submitted, finishErr)
	if err := s.sess.ClearTestDraft(context.Background(), s.inst.Name); err != nil {
		res.SetWarning("Could not clear your saved answers: " + err.Error())
	}
	return router.Replace(res)
}

func (s *TestScreen) View(width, height int) string {
	if s.runner == nil {
		return layout.Centered(width, theme.Subtitle, "Loading...")
	}
	q, ok := s.runner.Current()
	if !ok {
		return layout.Centered(width, theme.Subtitle, "Scoring...")
	}

	total := s.inst.Len()
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(components.StepProgress(
		fmt.Sprintf("Question %d of %d", s.runner.Index()+1, total),
		s.runner.Index(), total, min(width-4, 60),
	).View())
	b.WriteString("\n\n")

	if s.resumed > 0 {
		b.WriteString("  " + theme.Hint.Render(fmt.Sprintf("Resumed with %d saved answers.", s.resumed)) + "\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width - 4).
		PaddingLeft(2).
		Render(q.Text))
	b.WriteString("\n\n")

	for _, line := range strings.Split(strings.TrimRight(s.options.View(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}

	if s.warning != "" {
		b.WriteString("\n  " + theme.ErrorText.Render(s.warning) + "\n")
	}
	return b.String()
}
