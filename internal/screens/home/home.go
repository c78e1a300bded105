// Package home is the main menu: one entry per instrument, then the
// profile, interview and report workflows.
package home

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/eventlog"
	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/intake"
	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	crossexamscreen "github.com/abhisek/pathwise/internal/screens/crossexam"
	"github.com/abhisek/pathwise/internal/screens/history"
	"github.com/abhisek/pathwise/internal/screens/identity"
	intakescreen "github.com/abhisek/pathwise/internal/screens/intake"
	"github.com/abhisek/pathwise/internal/screens/notice"
	reportscreen "github.com/abhisek/pathwise/internal/screens/report"
	"github.com/abhisek/pathwise/internal/screens/testrun"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/testrunner"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Deps are the services the menu entries hand to their screens. Any of
// the clients may be nil; the entry then explains what is missing.
type Deps struct {
	Session      *session.Context
	Registry     *instrument.Registry
	Submitter    testrunner.Submitter
	Reports      report.Client
	Intake       intake.Client
	CrossExam    crossexamscreen.Service
	Recorder     *eventlog.Recorder
	Events       store.EventRepo
	PollInterval time.Duration
}

type draftsMsg struct {
	Names []string
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	drafts []string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadDrafts()
}

// Resume refreshes draft markers when a child screen is popped.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadDrafts()
}

func (h *HomeScreen) loadDrafts() tea.Cmd {
	sess := h.deps.Session
	return func() tea.Msg {
		names, _ := sess.TestDrafts(context.Background())
		return draftsMsg{Names: names}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) items() []components.MenuItem {
	d := h.deps
	var items []components.MenuItem

	if d.Registry != nil {
		for _, inst := range d.Registry.All() {
			item := components.MenuItem{
				Label: inst.Title,
				Action: func() tea.Cmd {
					return router.Push(testrun.New(inst, d.Session, d.Submitter, d.Recorder))
				},
			}
			if slices.Contains(h.drafts, inst.Name) {
				item.Detail = "draft saved"
			}
			items = append(items, item)
		}
	}

	profile := components.MenuItem{Label: "Profile", Action: func() tea.Cmd {
		if d.Intake == nil {
			return unavailable("Profile")
		}
		return router.Push(intakescreen.New(d.Intake, d.Session))
	}}
	if d.Session.Intake.Step > 0 || len(d.Session.Intake.Values) > 0 {
		profile.Detail = fmt.Sprintf("step %d of %d", d.Session.Intake.Step+1, len(intake.Steps))
	}

	interview := components.MenuItem{Label: "Cross-examination", Action: func() tea.Cmd {
		if d.CrossExam == nil {
			return unavailable("Cross-examination")
		}
		return router.Push(crossexamscreen.New(d.CrossExam, d.Session.CrossExam.Answers))
	}}
	if d.Session.CrossExam.Done {
		interview.Detail = "complete"
	}

	items = append(items,
		profile,
		interview,
		components.MenuItem{Label: "Career report", Action: func() tea.Cmd {
			if d.Reports == nil {
				return unavailable("Career report")
			}
			return router.Push(reportscreen.New(d.Reports, d.Session, d.Recorder, d.PollInterval))
		}},
		components.MenuItem{Label: "Activity", Action: func() tea.Cmd {
			if d.Events == nil {
				return unavailable("Activity")
			}
			return router.Push(history.New(d.Events))
		}},
		components.MenuItem{Label: "Identity", Detail: d.Session.Identity, Action: func() tea.Cmd {
			return router.Push(identity.New(d.Session))
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	return items
}

func unavailable(feature string) tea.Cmd {
	return router.Push(notice.New(feature, "This feature needs a connection to the guidance service.\nCheck PATHWISE_API_URL and try again."))
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(draftsMsg); ok {
		h.drafts = m.Names
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		h.menu.Selected = min(selected, len(h.menu.Items)-1)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	sections := []string{
		renderStatus(h.deps.Session, len(h.drafts), cw),
		lipgloss.NewStyle().
			Width(cw).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2).
			Render(strings.TrimRight(h.menu.View(), "\n")),
	}
	if h.deps.Session.Identity == "" {
		sections = append(sections, theme.Hint.Render("Set your identity before taking a test so results can be submitted."))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// contentWidth caps the menu column on wide terminals.
func contentWidth(width int) int {
	return min(max(width-8, 40), 64)
}

func renderStatus(sess *session.Context, drafts, width int) string {
	check := func(ok bool) string {
		if ok {
			return theme.Ok.Render("✓")
		}
		return theme.Hint.Render("·")
	}

	profileDone := sess.Intake.Step == 0 && len(sess.Intake.Values) == 0
	parts := []string{
		check(sess.Identity != "") + " identity",
		check(profileDone) + " profile",
		check(sess.CrossExam.Done) + " interview",
		check(sess.ReportJob != "") + " report",
	}
	if drafts > 0 {
		parts = append(parts, theme.Subtitle.Render(fmt.Sprintf("%d draft(s)", drafts)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Align(lipgloss.Center).
		Render(strings.Join(parts, "   "))
}
