// Package welcome is the first-run introduction. It walks through the
// workflow one step at a time and then hands over to the home screen.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const revealInterval = 400 * time.Millisecond

// Steps outline the workflow in the order the user follows it.
var Steps = []string{
	"Set your identity so results reach your guidance account",
	"Take the personality, interest and aptitude tests",
	"Fill in your profile and attach a resume",
	"Answer a few interview questions",
	"Generate your career report",
}

type revealMsg struct{}

// WelcomeScreen reveals Steps and replaces itself with the next screen on
// any key once everything is shown.
type WelcomeScreen struct {
	next         func() screen.Screen
	shown        int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that continues to the screen built by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return reveal()
}

func reveal() tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealMsg{}
	})
}

// Done reports whether every step has been revealed.
func (w *WelcomeScreen) Done() bool {
	return w.shown >= len(Steps)
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case revealMsg:
		if w.Done() {
			return w, nil
		}
		w.shown++
		if w.Done() {
			return w, nil
		}
		return w, reveal()

	case tea.KeyPressMsg:
		// The first key skips the animation, the next one continues.
		if !w.Done() {
			w.shown = len(Steps)
			return w, nil
		}
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.next())
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		RenderBanner(width),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Find careers that fit who you are."),
		"",
	}

	var steps []string
	for i := range w.shown {
		steps = append(steps, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d.", i+1))+" "+theme.Body.Render(Steps[i]))
	}
	sections = append(sections, lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(steps, "\n")))

	if w.Done() {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
