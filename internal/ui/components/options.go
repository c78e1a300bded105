package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Options is a single-choice list for answering a question. Digits pick
// an option directly; arrows move the cursor and Enter confirms.
type Options struct {
	Labels   []string
	Selected int
	Chosen   int
}

// NewOptions creates an option list with nothing chosen yet.
func NewOptions(labels []string) Options {
	return Options{Labels: labels, Chosen: -1}
}

// Update handles keyboard navigation and selection.
func (o Options) Update(msg tea.Msg) (Options, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Labels) == 0 {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Labels)-1 {
			o.Selected++
		}
	case "enter":
		o.Chosen = o.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if idx := int(key[0] - '1'); idx < len(o.Labels) {
				o.Selected = idx
				o.Chosen = idx
			}
		}
	}
	return o, nil
}

// Take returns the chosen index and clears it, so a screen reacts to a
// choice exactly once.
func (o *Options) Take() (int, bool) {
	if o.Chosen < 0 {
		return 0, false
	}
	idx := o.Chosen
	o.Chosen = -1
	return idx, true
}

// View renders the numbered option list.
func (o Options) View() string {
	var b strings.Builder
	for i, label := range o.Labels {
		line := fmt.Sprintf("%d) %s", i+1, label)
		if i == o.Selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
