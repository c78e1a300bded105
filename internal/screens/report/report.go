// Package report shows report generation progress and, once the job
// completes, the career report itself.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/eventlog"
	rep "github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// snapshotMsg carries a poller update into the program loop.
type snapshotMsg struct {
	Snap rep.Snapshot
}

// ReportScreen implements screen.Screen for the report workflow.
type ReportScreen struct {
	client   rep.Client
	sess     *session.Context
	recorder *eventlog.Recorder
	interval time.Duration

	poller  *rep.Poller
	updates chan rep.Snapshot
	snap    rep.Snapshot
	spinner components.Spinner
	scroll  int
	warning string
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)
var _ screen.Closer = (*ReportScreen)(nil)

// New creates the report screen. The job starts on Init.
func New(client rep.Client, sess *session.Context, recorder *eventlog.Recorder, interval time.Duration) *ReportScreen {
	return &ReportScreen{
		client:   client,
		sess:     sess,
		recorder: recorder,
		interval: interval,
		spinner:  components.NewSpinner(rep.StageLabel(0)),
	}
}

func (s *ReportScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.spinner.Tick())
}

// start launches a fresh poller. Updates are buffered; the wait command
// falls back to the poller's final snapshot so a dropped update never
// strands the screen.
func (s *ReportScreen) start() tea.Cmd {
	s.updates = make(chan rep.Snapshot, 8)
	updates := s.updates
	s.poller = rep.NewPoller(s.client,
		rep.WithInterval(s.interval),
		rep.WithObserver(s.recorder.ReportObserver(func(snap rep.Snapshot) {
			select {
			case updates <- snap:
			default:
			}
		})),
	)
	s.scroll = 0

	if err := s.poller.Start(context.Background(), s.sess.Identity); err != nil {
		s.snap = rep.Snapshot{State: rep.StateFailed, Err: err}
		return nil
	}
	return s.wait()
}

func (s *ReportScreen) wait() tea.Cmd {
	updates, p := s.updates, s.poller
	return func() tea.Msg {
		select {
		case snap := <-updates:
			return snapshotMsg{Snap: snap}
		case <-p.Done():
			return snapshotMsg{Snap: p.Snapshot()}
		}
	}
}

func (s *ReportScreen) Title() string {
	return "Career Report"
}

// Snapshot returns the last applied poller state.
func (s *ReportScreen) Snapshot() rep.Snapshot {
	return s.snap
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	switch s.snap.State {
	case rep.StateSucceeded:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	case rep.StateFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	}
}

// Close stops polling when the screen is dismissed.
func (s *ReportScreen) Close() {
	if s.poller != nil {
		s.poller.Stop()
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		return s, s.apply(msg.Snap)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if !s.snap.State.Terminal() {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ReportScreen) apply(snap rep.Snapshot) tea.Cmd {
	if snap.JobID != "" && snap.JobID != s.sess.ReportJob {
		s.sess.ReportJob = snap.JobID
		if err := s.sess.Save(context.Background()); err != nil {
			s.warning = "Could not save the report job: " + err.Error()
		}
	}
	s.snap = snap
	s.spinner.Label = snap.StageLabel
	if snap.State.Terminal() {
		return nil
	}
	return s.wait()
}

func (s *ReportScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "r", "R":
		if s.snap.State == rep.StateFailed {
			s.Close()
			s.snap = rep.Snapshot{}
			return s, tea.Batch(s.start(), s.spinner.Tick())
		}
	case "up", "k":
		if s.scroll > 0 {
			s.scroll--
		}
	case "down", "j":
		s.scroll++
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	if s.warning != "" {
		return s.view(width, max(height-2, 1)) + "\n\n  " + theme.ErrorText.Render(s.warning)
	}
	return s.view(width, height)
}

func (s *ReportScreen) view(width, height int) string {
	switch s.snap.State {
	case rep.StateSucceeded:
		return s.renderReport(width, height)
	case rep.StateFailed:
		msg := "Report generation failed."
		if s.snap.Err != nil {
			msg = s.snap.Err.Error()
		}
		return layout.Centered(width, theme.ErrorText, msg+"\n\nPress R to retry.")
	default:
		return s.renderProgress(width)
	}
}

func (s *ReportScreen) renderProgress(width int) string {
	var b strings.Builder
	b.WriteString("\n\n  ")
	b.WriteString(s.spinner.View())
	b.WriteString("\n\n  ")

	done := 0
	if s.snap.State == rep.StatePolling {
		done = s.snap.Stage + 1
	}
	b.WriteString(components.StepProgress(
		fmt.Sprintf("Stage %d of %d", max(done, 1), len(rep.Stages)),
		done, len(rep.Stages), min(width-4, 60),
	).View())
	b.WriteString("\n")

	if s.snap.Partial != nil && !s.snap.Partial.Empty() {
		b.WriteString("\n  " + theme.Heading.Render("Early insights") + "\n")
		b.WriteString(wrap(s.snap.Partial.Summary(), width))
	}
	return b.String()
}

func (s *ReportScreen) renderReport(width, height int) string {
	r := s.snap.Result

	var lines []string
	lines = append(lines, "", "  "+theme.Heading.Render("Summary"))
	lines = append(lines, strings.Split(wrap(r.Summary(), width), "\n")...)
	for _, sec := range r.Sections() {
		lines = append(lines, "", "  "+theme.Heading.Render(sec.Title))
		for _, item := range sec.Items {
			for i, l := range strings.Split(item, "\n") {
				prefix := "    • "
				if i > 0 {
					prefix = "    "
				}
				lines = append(lines, prefix+l)
			}
		}
	}

	s.scroll = min(s.scroll, max(len(lines)-height, 0))
	end := min(s.scroll+height, len(lines))
	return strings.Join(lines[s.scroll:end], "\n")
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(max(width-4, 20)).
		PaddingLeft(2).
		Render(text)
}
