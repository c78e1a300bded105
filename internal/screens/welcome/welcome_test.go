package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func anyKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 'x', Text: "x"}
}

func TestRevealsOneStepPerTick(t *testing.T) {
	w, _ := newTestWelcome()
	if cmd := w.Init(); cmd == nil {
		t.Fatal("Init should schedule the first reveal")
	}

	for i := 1; i <= len(Steps); i++ {
		_, cmd := w.Update(revealMsg{})
		if w.shown != i {
			t.Fatalf("after %d ticks shown = %d", i, w.shown)
		}
		if i < len(Steps) && cmd == nil {
			t.Fatalf("tick %d should schedule another reveal", i)
		}
		if i == len(Steps) && cmd != nil {
			t.Fatal("last reveal should stop ticking")
		}
	}

	// Extra ticks are harmless.
	w.Update(revealMsg{})
	if w.shown != len(Steps) {
		t.Errorf("shown = %d, want %d", w.shown, len(Steps))
	}
}

func TestViewShowsRevealedSteps(t *testing.T) {
	w, _ := newTestWelcome()
	view := w.View(80, 24)
	if strings.Contains(view, Steps[0]) {
		t.Error("no step should be visible before the first tick")
	}
	if strings.Contains(view, "press any key") {
		t.Error("continue hint should wait for the last step")
	}

	w.Update(revealMsg{})
	view = w.View(80, 24)
	if !strings.Contains(view, Steps[0]) || strings.Contains(view, Steps[1]) {
		t.Error("exactly the first step should be visible")
	}
}

func TestFirstKeySkipsAnimation(t *testing.T) {
	w, calls := newTestWelcome()

	_, cmd := w.Update(anyKey())
	if cmd != nil {
		t.Error("first key should only finish the animation")
	}
	if !w.Done() {
		t.Error("all steps should be shown after a key")
	}
	if *calls != 0 {
		t.Error("next screen should not be built yet")
	}
	if !strings.Contains(w.View(80, 24), "press any key") {
		t.Error("continue hint should be visible")
	}
}

func TestKeyAfterRevealReplacesScreen(t *testing.T) {
	w, calls := newTestWelcome()
	w.shown = len(Steps)

	_, cmd := w.Update(anyKey())
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Home" {
		t.Errorf("replaced with %q", msg.Screen.Title())
	}

	// Only one transition, however many keys arrive.
	_, cmd = w.Update(anyKey())
	if cmd != nil {
		t.Error("second transition should be suppressed")
	}
	if *calls != 1 {
		t.Errorf("next factory called %d times, want 1", *calls)
	}
}

func TestBannerCompact(t *testing.T) {
	if got := RenderBanner(20); !strings.Contains(got, "P A T H W I S E") {
		t.Errorf("narrow banner = %q", got)
	}
	if got := RenderBanner(80); strings.Contains(got, "P A T H W I S E") {
		t.Error("wide terminals should get the full banner")
	}
}
