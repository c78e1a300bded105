package components

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Spinner is a labelled loading indicator.
type Spinner struct {
	Model spinner.Model
	Label string
}

// NewSpinner creates a spinner showing label.
func NewSpinner(label string) Spinner {
	return Spinner{
		Model: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
		Label: label,
	}
}

// Tick starts the animation.
func (s Spinner) Tick() tea.Cmd {
	return s.Model.Tick
}

// Update advances the animation on spinner ticks.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the spinner and its label.
func (s Spinner) View() string {
	return s.Model.View() + " " + theme.Subtitle.Render(s.Label)
}
