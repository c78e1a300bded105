package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Pathwise styling and an inline
// validation message.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	err         string
}

// NewTextInput creates a new focused text input. A positive limit caps
// the number of characters.
func NewTextInput(placeholder string, numericOnly bool, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, NumericOnly: numericOnly}
}

// Init returns the cursor blink command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Typing clears any validation message.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if t.NumericOnly && len(key) == 1 && (key[0] < '0' || key[0] > '9') && key != "." {
			return t, nil
		}
		t.err = ""
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input followed by the validation message, if any.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.err != "" {
		view += "\n" + theme.ErrorText.Render("✗ "+t.err)
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Reset clears the value and the validation message.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.err = ""
}

// NumericValue parses the input as a float.
func (t TextInput) NumericValue() (float64, error) {
	return strconv.ParseFloat(t.Value(), 64)
}

// SetError shows msg under the input until the next keystroke.
func (t *TextInput) SetError(msg string) {
	t.err = msg
}

// Err returns the current validation message.
func (t TextInput) Err() string {
	return t.err
}
