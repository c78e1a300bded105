package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

func openKV(t *testing.T) store.KVRepo {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.KVRepo()
}

func TestIdentityScreen_SavesValidEmail(t *testing.T) {
	kv := openKV(t)
	sess, err := session.Load(context.Background(), kv)
	require.NoError(t, err)

	s := New(sess)
	s.input.SetValue("asha@example.com")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())

	back, err := session.Load(context.Background(), kv)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", back.Identity)
}

func TestIdentityScreen_RejectsInvalidEmail(t *testing.T) {
	sess, err := session.Load(context.Background(), openKV(t))
	require.NoError(t, err)

	s := New(sess)
	s.input.SetValue("not-an-email")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, sess.Identity)
	assert.Contains(t, s.View(80, 24), "invalid email")
}
