package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// pageSize is how many events the screen loads.
const pageSize = 50

type historyLoadedMsg struct {
	Events []store.EventRecord
	Err    error
}

// HistoryScreen lists recent submissions, report jobs and LLM calls.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.EventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := s.eventRepo.Recent(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Activity"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(width, theme.ErrorText, "Error: "+s.errMsg)
	}
	if !s.loaded {
		return layout.Centered(width, theme.Subtitle, "Loading activity...")
	}
	if len(s.events) == 0 {
		return layout.Centered(width, theme.Hint, "No activity yet. Take a test to get started.")
	}

	// Keep the selection on screen.
	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < len(s.events) && i < start+rows; i++ {
		ev := s.events[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		mark := theme.Ok.Render("✓")
		if !ev.Success {
			mark = theme.Failed.Render("✗")
		}

		line := fmt.Sprintf("%s%s  %-11s %s",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Kind, ev.Summary)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line) + " " + mark + "\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    #%d", ev.Sequence)
			if ev.Error != "" {
				detail += "  " + ev.Error
			}
			b.WriteString(theme.Hint.Width(max(width-2, 20)).Render(detail) + "\n")
		}
	}
	return b.String()
}
