// Package result shows a finished test's category levels and tracks the
// background score submission.
package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// SubmitStatus is the state of the score upload.
type SubmitStatus int

const (
	SubmitPending SubmitStatus = iota
	SubmitDone
	SubmitFailed
	SubmitSkipped
)

// submittedMsg carries the background submit result.
type submittedMsg struct {
	Err error
}

// ResultScreen implements screen.Screen for a finished run.
type ResultScreen struct {
	inst      *instrument.Instrument
	summaries []scoring.CategorySummary
	submitted <-chan error
	status    SubmitStatus
	err       error
	warning   string
	spinner   components.Spinner
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates the result screen. submitted delivers the submit outcome;
// a nil channel or a non-nil finishErr means nothing was sent.
func New(inst *instrument.Instrument, summaries []scoring.CategorySummary, submitted <-chan error, finishErr error) *ResultScreen {
	s := &ResultScreen{
		inst:      inst,
		summaries: summaries,
		submitted: submitted,
		spinner:   components.NewSpinner("Submitting your scores..."),
	}
	switch {
	case finishErr != nil:
		s.status = SubmitFailed
		s.err = finishErr
	case submitted == nil:
		s.status = SubmitSkipped
	}
	return s
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.status != SubmitPending {
		return nil
	}
	return tea.Batch(s.spinner.Tick(), waitSubmitted(s.submitted))
}

func waitSubmitted(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{Err: <-ch}
	}
}

func (s *ResultScreen) Title() string {
	return s.inst.Title + " Results"
}

// SetWarning shows msg under the submit status.
func (s *ResultScreen) SetWarning(msg string) {
	s.warning = msg
}

// Status returns the submit state.
func (s *ResultScreen) Status() SubmitStatus {
	return s.status
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		if msg.Err != nil {
			s.status = SubmitFailed
			s.err = msg.Err
		} else {
			s.status = SubmitDone
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, router.Pop
		}
		return s, nil
	}

	if s.status == SubmitPending {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if len(s.summaries) == 0 {
		b.WriteString("  " + theme.Hint.Render("Every question was skipped, so there is nothing to score.") + "\n")
	}

	explain := width - 12
	for _, sum := range s.summaries {
		b.WriteString("  " + theme.Heading.Width(20).Render(sum.Category))
		b.WriteString(fmt.Sprintf("%5.2f  ", sum.Average))
		b.WriteString(theme.Level(sum.Level).Render(sum.Level) + "\n")
		if text := s.inst.Explain(sum.Category, sum.Level); text != "" {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(explain).
				PaddingLeft(4).
				Render(text))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + s.statusLine() + "\n")
	if s.warning != "" {
		b.WriteString("\n  " + theme.ErrorText.Render(s.warning) + "\n")
	}
	return b.String()
}

func (s *ResultScreen) statusLine() string {
	switch s.status {
	case SubmitPending:
		return s.spinner.View()
	case SubmitDone:
		return theme.Ok.Render("✓ Scores submitted")
	case SubmitSkipped:
		return theme.Hint.Render("Scores were not sent (offline)")
	default:
		return theme.Failed.Render("✗ Scores not submitted: ") + theme.ErrorText.Render(s.err.Error())
	}
}
