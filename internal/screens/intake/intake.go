// Package intake is the five-step profile form. The draft lives in the
// session, so leaving mid-way keeps every typed value and the step.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/intake"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

type sentMsg struct {
	Outcome *intake.Outcome
	Err     error
}

// IntakeScreen implements screen.Screen for the profile form.
type IntakeScreen struct {
	client intake.Client
	sess   *session.Context
	form   *intake.Form

	focus  int
	input  components.TextInput
	errs   intake.Errors
	errMsg string

	spinner components.Spinner
	sending bool
	sent    *intake.Outcome
}

var _ screen.Screen = (*IntakeScreen)(nil)
var _ screen.KeyHintProvider = (*IntakeScreen)(nil)
var _ screen.Closer = (*IntakeScreen)(nil)

// New resumes the form from the session draft.
func New(client intake.Client, sess *session.Context) *IntakeScreen {
	s := &IntakeScreen{
		client:  client,
		sess:    sess,
		form:    intake.NewForm(sess.Intake.Step, sess.Intake.Values),
		spinner: components.NewSpinner("Sending your profile..."),
	}
	s.focusField(0)
	return s
}

func (s *IntakeScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *IntakeScreen) Title() string {
	return fmt.Sprintf("Profile %d/%d: %s", s.form.Step+1, len(intake.Steps), s.form.Current().Title)
}

func (s *IntakeScreen) KeyHints() []layout.KeyHint {
	if s.sent != nil || s.sending {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "Enter", Description: "Next"},
	}
	if s.field().Kind == intake.KindChoice {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Choose"})
	}
	if s.form.Step > 0 {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+B", Description: "Previous step"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Save & exit"})
}

// Form exposes the underlying form state.
func (s *IntakeScreen) Form() *intake.Form {
	return s.form
}

// Close keeps the field being edited when the screen is dismissed.
func (s *IntakeScreen) Close() {
	if s.sent != nil || s.sending {
		return
	}
	s.commit()
	s.save()
}

func (s *IntakeScreen) field() intake.Field {
	return s.form.Current().Fields[s.focus]
}

func (s *IntakeScreen) focusField(i int) {
	s.focus = i
	f := s.field()
	s.input = components.NewTextInput(f.Hint, f.Kind == intake.KindNumber, 200)
	s.input.SetValue(intake.Value(s.form.Values, f))
	if msg := s.errs.For(f.Name); msg != "" {
		s.input.SetError(msg)
	}
}

// commit copies the edited value into the draft.
func (s *IntakeScreen) commit() {
	f := s.field()
	if f.Kind == intake.KindChoice {
		return
	}
	s.form.Set(f.Name, s.input.Value())
}

func (s *IntakeScreen) save() {
	s.sess.Intake.Step = s.form.Step
	s.sess.Intake.Values = s.form.Values
	if err := s.sess.Save(context.Background()); err != nil {
		s.errMsg = "Could not save your draft: " + err.Error()
	}
}

func (s *IntakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sentMsg:
		s.sending = false
		if msg.Err != nil {
			var errs intake.Errors
			if errors.As(msg.Err, &errs) {
				s.jumpToErrors()
				return s, nil
			}
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.sent = msg.Outcome
		s.sess.ClearIntake()
		if err := s.sess.Save(context.Background()); err != nil {
			s.errMsg = "Could not clear your saved profile: " + err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		if s.sending || s.sent != nil {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.sending {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *IntakeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	fields := s.form.Current().Fields
	switch msg.String() {
	case "up", "shift+tab":
		s.commit()
		s.focusField((s.focus - 1 + len(fields)) % len(fields))
		return s, nil
	case "down", "tab":
		s.commit()
		s.focusField((s.focus + 1) % len(fields))
		return s, nil
	case "left", "right":
		if s.field().Kind == intake.KindChoice {
			s.cycle(msg.String() == "right")
			return s, nil
		}
	case "ctrl+b":
		s.commit()
		s.form.Back()
		s.errs = nil
		s.save()
		s.focusField(0)
		return s, nil
	case "enter":
		s.commit()
		if s.focus < len(fields)-1 {
			s.focusField(s.focus + 1)
			return s, nil
		}
		return s, s.advance()
	}

	if s.field().Kind == intake.KindChoice {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// cycle moves a choice field to the next or previous option.
func (s *IntakeScreen) cycle(forward bool) {
	f := s.field()
	cur := intake.Value(s.form.Values, f)
	idx := -1
	for i, c := range f.Choices {
		if c == cur {
			idx = i
		}
	}
	switch {
	case forward:
		idx = (idx + 1) % len(f.Choices)
	case idx <= 0:
		idx = len(f.Choices) - 1
	default:
		idx--
	}
	s.form.Set(f.Name, f.Choices[idx])
	s.focusField(s.focus)
}

// advance validates the step and moves on, or sends the profile after
// the last step.
func (s *IntakeScreen) advance() tea.Cmd {
	done, err := s.form.Next()
	if err != nil {
		s.jumpToErrors()
		return nil
	}
	s.errs = nil
	s.errMsg = ""
	s.save()
	if !done {
		s.focusField(0)
		return nil
	}

	s.sending = true
	identity := s.sess.Identity
	values := s.form.Values
	return tea.Batch(s.spinner.Tick(), func() tea.Msg {
		out, err := intake.Send(context.Background(), s.client, identity, values)
		return sentMsg{Outcome: out, Err: err}
	})
}

// jumpToErrors moves to the first invalid step and focuses its first
// failing field.
func (s *IntakeScreen) jumpToErrors() {
	step, err := intake.ValidateAll(s.form.Values)
	var errs intake.Errors
	if step < 0 || !errors.As(err, &errs) {
		return
	}
	s.form.Step = step
	s.errs = errs
	s.errMsg = fmt.Sprintf("Please fix %d field(s) on this step.", len(errs))
	s.save()
	for i, f := range s.form.Current().Fields {
		if errs.For(f.Name) != "" {
			s.focusField(i)
			return
		}
	}
	s.focusField(0)
}

func (s *IntakeScreen) View(width, height int) string {
	if s.sent != nil {
		msg := "✓ Profile submitted"
		if s.sent.Resume != nil {
			msg += fmt.Sprintf("\n\nResume %s uploaded (%d words).", s.sent.Resume.Name, s.sent.Resume.Words())
		}
		out := layout.Centered(width, theme.Ok, msg)
		if s.errMsg != "" {
			out += "\n\n" + theme.ErrorText.Width(width).Align(lipgloss.Center).Render(s.errMsg)
		}
		return out
	}
	if s.sending {
		return "\n\n  " + s.spinner.View()
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(components.StepProgress("", s.form.Step, len(intake.Steps), min(width-4, 50)).View())
	b.WriteString("\n\n")

	fields := s.form.Current().Fields
	// Keep the focused field visible on long steps.
	rows := max((height-8)/2, 3)
	start := 0
	if s.focus >= rows {
		start = s.focus - rows + 1
	}
	end := min(start+rows, len(fields))

	for i := start; i < end; i++ {
		b.WriteString(s.renderField(i, fields[i]))
	}
	if end < len(fields) {
		b.WriteString("  " + theme.Hint.Render(fmt.Sprintf("… %d more", len(fields)-end)) + "\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n  " + theme.ErrorText.Render(s.errMsg) + "\n")
	}
	return b.String()
}

func (s *IntakeScreen) renderField(i int, f intake.Field) string {
	label := f.Label
	if f.Required {
		label += " *"
	}

	if i != s.focus {
		v := intake.Value(s.form.Values, f)
		line := "    " + theme.Unselected.Render(label) + "  " + theme.Subtitle.Render(v)
		if msg := s.errs.For(f.Name); msg != "" {
			line += "  " + theme.ErrorText.Render(msg)
		}
		return line + "\n"
	}

	out := "  " + theme.Selected.Render("▸ "+label) + "\n"
	switch f.Kind {
	case intake.KindChoice:
		v := intake.Value(s.form.Values, f)
		if v == "" {
			v = "(choose)"
		}
		out += "    ◂ " + theme.Body.Render(v) + " ▸   " + theme.Hint.Render(strings.Join(f.Choices, " / ")) + "\n"
		if msg := s.errs.For(f.Name); msg != "" {
			out += "    " + theme.ErrorText.Render("✗ "+msg) + "\n"
		}
	default:
		out += "    " + strings.ReplaceAll(s.input.View(), "\n", "\n    ") + "\n"
		if f.Kind == intake.KindMulti {
			out += "    " + theme.Hint.Render("comma separated: "+strings.Join(f.Choices, ", ")) + "\n"
		}
	}
	return out
}
