// Package crossexam is the interview screen: a handful of open questions
// about the user's profile, with up to two rounds of follow-ups.
package crossexam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/crossexam"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

type questionsMsg struct {
	Questions []string
	Err       error
}

type evaluatedMsg struct {
	Eval *crossexam.Evaluation
	Err  error
}

// Service is the part of crossexam.Service the screen drives.
type Service interface {
	Questions(ctx context.Context) ([]string, error)
	Submit(ctx context.Context, answers []string) (*crossexam.Evaluation, error)
	Round() int
	Done() bool
}

// CrossExamScreen implements screen.Screen.
type CrossExamScreen struct {
	svc     Service
	saved   []string
	spinner components.Spinner
	busy    bool

	questions []string
	inputs    []components.TextInput
	focus     int

	finished bool
	eval     *crossexam.Evaluation
	errMsg   string
}

var _ screen.Screen = (*CrossExamScreen)(nil)
var _ screen.KeyHintProvider = (*CrossExamScreen)(nil)

// New creates the screen. saved pre-fills answers kept from a failed
// submit.
func New(svc Service, saved []string) *CrossExamScreen {
	return &CrossExamScreen{
		svc:     svc,
		saved:   saved,
		spinner: components.NewSpinner("Preparing your questions..."),
		busy:    true,
	}
}

func (s *CrossExamScreen) Init() tea.Cmd {
	return tea.Batch(s.fetch(), s.spinner.Tick())
}

func (s *CrossExamScreen) fetch() tea.Cmd {
	return func() tea.Msg {
		qs, err := s.svc.Questions(context.Background())
		return questionsMsg{Questions: qs, Err: err}
	}
}

func (s *CrossExamScreen) Title() string {
	return "Cross-Examination"
}

func (s *CrossExamScreen) KeyHints() []layout.KeyHint {
	if s.finished || s.busy {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "Enter", Description: "Next / Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

// Answers returns the current field values.
func (s *CrossExamScreen) Answers() []string {
	out := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		out[i] = in.Value()
	}
	return out
}

func (s *CrossExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		s.busy = false
		if errors.Is(msg.Err, crossexam.ErrDone) {
			s.finished = true
			return s, nil
		}
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.ask(msg.Questions, s.saved)

	case evaluatedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.eval = msg.Eval
		if s.svc.Done() {
			s.finished = true
			s.inputs = nil
			return s, nil
		}
		s.busy = true
		s.spinner.Label = "Preparing follow-up questions..."
		return s, tea.Batch(s.fetch(), s.spinner.Tick())

	case tea.KeyMsg:
		if s.busy || s.finished || len(s.inputs) == 0 {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.busy {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	if len(s.inputs) > 0 {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CrossExamScreen) ask(questions, prefill []string) tea.Cmd {
	s.questions = questions
	s.inputs = make([]components.TextInput, len(questions))
	for i := range questions {
		in := components.NewTextInput("Your answer...", false, 500)
		if len(prefill) == len(questions) {
			in.SetValue(prefill[i])
		}
		in.Model.Blur()
		s.inputs[i] = in
	}
	s.saved = nil
	s.focus = 0
	return s.inputs[0].Model.Focus()
}

func (s *CrossExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.move(1)
	case "shift+tab", "up":
		return s, s.move(-1)
	case "enter":
		if s.focus < len(s.inputs)-1 {
			return s, s.move(1)
		}
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *CrossExamScreen) move(delta int) tea.Cmd {
	next := (s.focus + delta + len(s.inputs)) % len(s.inputs)
	s.inputs[s.focus].Model.Blur()
	s.focus = next
	return s.inputs[s.focus].Model.Focus()
}

func (s *CrossExamScreen) submit() tea.Cmd {
	answers := s.Answers()
	for i, a := range answers {
		if a == "" {
			s.errMsg = crossexam.ErrUnanswered.Error()
			s.inputs[i].SetError("required")
			return nil
		}
	}
	s.errMsg = ""
	s.busy = true
	s.spinner.Label = "Evaluating your answers..."
	return tea.Batch(s.spinner.Tick(), func() tea.Msg {
		ev, err := s.svc.Submit(context.Background(), answers)
		return evaluatedMsg{Eval: ev, Err: err}
	})
}

func (s *CrossExamScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case s.finished:
		b.WriteString("  " + theme.Ok.Render("✓ Cross-examination complete") + "\n\n")
		if s.eval != nil && s.eval.Analysis != nil && !s.eval.Analysis.Empty() {
			b.WriteString("  " + theme.Heading.Render("What we learned") + "\n")
			b.WriteString(lipgloss.NewStyle().Width(max(width-4, 20)).PaddingLeft(2).
				Render(s.eval.Analysis.Summary()))
			b.WriteString("\n\n")
		}
		b.WriteString("  " + theme.Hint.Render("Generate your career report from the home menu.") + "\n")
		return b.String()

	case s.busy:
		b.WriteString("\n  " + s.spinner.View() + "\n")
		return b.String()
	}

	if round := s.svc.Round(); round > 0 {
		b.WriteString("  " + theme.Subtitle.Render(fmt.Sprintf("Follow-up round %d", round)) + "\n\n")
	}

	for i, q := range s.questions {
		style := theme.Unselected
		if i == s.focus {
			style = theme.Selected
		}
		b.WriteString(lipgloss.NewStyle().Width(max(width-4, 20)).PaddingLeft(2).
			Render(style.Render(fmt.Sprintf("%d. %s", i+1, q))))
		b.WriteString("\n    " + strings.ReplaceAll(s.inputs[i].View(), "\n", "\n    ") + "\n\n")
	}

	if s.errMsg != "" {
		b.WriteString("  " + theme.ErrorText.Render(s.errMsg) + "\n")
	}
	return b.String()
}
