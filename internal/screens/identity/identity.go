// Package identity lets the user set the email every submission is
// filed under.
package identity

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// IdentityScreen implements screen.Screen.
type IdentityScreen struct {
	sess  *session.Context
	input components.TextInput
}

var _ screen.Screen = (*IdentityScreen)(nil)
var _ screen.KeyHintProvider = (*IdentityScreen)(nil)

func New(sess *session.Context) *IdentityScreen {
	in := components.NewTextInput("you@example.com", false, 254)
	in.SetValue(sess.Identity)
	return &IdentityScreen{sess: sess, input: in}
}

func (s *IdentityScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *IdentityScreen) Title() string {
	return "Identity"
}

func (s *IdentityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *IdentityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		if err := s.sess.SetIdentity(context.Background(), s.input.Value()); err != nil {
			s.input.SetError(err.Error())
			return s, nil
		}
		if err := s.sess.Save(context.Background()); err != nil {
			s.input.SetError(err.Error())
			return s, nil
		}
		return s, router.Pop
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *IdentityScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n  ")
	b.WriteString(theme.Body.Render("Your email identifies your results and report."))
	b.WriteString("\n  ")
	b.WriteString(theme.Hint.Render("Switching to a different email starts a fresh cross-examination."))
	b.WriteString("\n\n  ")
	b.WriteString(strings.ReplaceAll(s.input.View(), "\n", "\n  "))
	return b.String()
}
