package home

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/screens/notice"
	"github.com/abhisek/pathwise/internal/screens/testrun"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

func openSession(t *testing.T) *session.Context {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	sess, err := session.Load(context.Background(), s.KVRepo())
	require.NoError(t, err)
	return sess
}

func labels(h *HomeScreen) []string {
	out := make([]string, len(h.menu.Items))
	for i, it := range h.menu.Items {
		out[i] = it.Label
	}
	return out
}

func selectItem(t *testing.T, h *HomeScreen, label string) tea.Msg {
	t.Helper()
	for i, it := range h.menu.Items {
		if it.Label == label {
			h.menu.Selected = i
			_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
			require.NotNil(t, cmd)
			return cmd()
		}
	}
	t.Fatalf("no menu item %q", label)
	return nil
}

func TestHomeScreen_MenuLayout(t *testing.T) {
	h := New(Deps{
		Session:  openSession(t),
		Registry: instrument.NewRegistry(instrument.Builtin()...),
	})

	got := labels(h)
	n := len(instrument.Builtin())
	require.Len(t, got, n+6)
	assert.Equal(t, []string{"Profile", "Cross-examination", "Career report", "Activity", "Identity", "Quit"}, got[n:])
}

func TestHomeScreen_InstrumentPushesTestRun(t *testing.T) {
	reg := instrument.NewRegistry(instrument.Builtin()...)
	h := New(Deps{Session: openSession(t), Registry: reg})

	msg := selectItem(t, h, reg.All()[0].Title)
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &testrun.TestScreen{}, push.Screen)
}

func TestHomeScreen_MissingClientShowsNotice(t *testing.T) {
	h := New(Deps{Session: openSession(t)})

	for _, label := range []string{"Profile", "Cross-examination", "Career report", "Activity"} {
		push, ok := selectItem(t, h, label).(router.PushScreenMsg)
		require.True(t, ok, label)
		assert.IsType(t, &notice.NoticeScreen{}, push.Screen, label)
	}
}

func TestHomeScreen_DraftMarkerRefreshesOnResume(t *testing.T) {
	sess := openSession(t)
	reg := instrument.NewRegistry(instrument.Builtin()...)
	inst := reg.All()[0]
	h := New(Deps{Session: sess, Registry: reg})

	h.Update(h.Init()())
	assert.Empty(t, h.menu.Items[0].Detail)

	require.NoError(t, sess.SaveTestDraft(context.Background(), inst, []scoring.Answer{{Category: inst.Questions[0].Category, Value: 3}}))
	h.Update(h.Resume()())
	assert.Equal(t, "draft saved", h.menu.Items[0].Detail)
	assert.Contains(t, h.View(100, 30), "draft saved")
}

func TestHomeScreen_QuitItem(t *testing.T) {
	h := New(Deps{Session: openSession(t)})
	msg := selectItem(t, h, "Quit")
	assert.IsType(t, tea.QuitMsg{}, msg)
}
