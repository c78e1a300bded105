package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/api"
	"github.com/abhisek/pathwise/internal/devserver"
	"github.com/abhisek/pathwise/internal/eventlog"
	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(t *testing.T, s *store.Store) *session.Context {
	t.Helper()
	sess, err := session.Load(context.Background(), s.KVRepo())
	require.NoError(t, err)
	require.NoError(t, sess.SetIdentity(context.Background(), "ravi@example.com"))
	return sess
}

func TestTakeTest_SubmitsToDevServer(t *testing.T) {
	srv := httptest.NewServer(devserver.New(devserver.WithLogOutput(io.Discard)).Handler())
	defer srv.Close()

	st := openTestStore(t)
	sess := testSession(t, st)
	inst := instrument.RIASEC()

	input := "9\n" + strings.Repeat("4\n", inst.Len())
	var out bytes.Buffer
	err := takeTest(context.Background(), inst, sess, api.NewClient(srv.URL), eventlog.New(st.EventRepo()), strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Please enter a listed number.")
	assert.Contains(t, out.String(), "Scores submitted.")
	assert.Contains(t, out.String(), "RIASEC")

	drafts, err := sess.TestDrafts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drafts)

	events, err := st.EventRepo().Recent(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, store.KindSubmission, events[0].Kind)
	assert.True(t, events[0].Success)
}

func TestTakeTest_QuitKeepsDraft(t *testing.T) {
	st := openTestStore(t)
	sess := testSession(t, st)
	inst := instrument.RIASEC()

	var out bytes.Buffer
	err := takeTest(context.Background(), inst, sess, nil, nil, strings.NewReader("2\ns\nq\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Progress saved.")

	answers, ok, err := sess.LoadTestDraft(context.Background(), inst)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, answers, 2)
	assert.True(t, answers[1].Skipped)

	out.Reset()
	input := strings.Repeat("3\n", inst.Len()-2)
	require.NoError(t, takeTest(context.Background(), inst, sess, nil, nil, strings.NewReader(input), &out))
	assert.Contains(t, out.String(), "Resuming with 2 saved answers.")
}

func TestTakeTest_NoIdentity(t *testing.T) {
	st := openTestStore(t)
	sess, err := session.Load(context.Background(), st.KVRepo())
	require.NoError(t, err)
	inst := instrument.RIASEC()

	var out bytes.Buffer
	err = takeTest(context.Background(), inst, sess, nil, nil, strings.NewReader(strings.Repeat("1\n", inst.Len())), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores were not submitted")
	assert.Contains(t, out.String(), "results")
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestIdentityAndDraftCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pathwise.db")

	assert.Contains(t, execute(t, "identity", "--db", db), "No identity set.")
	execute(t, "identity", "set", "asha@example.com", "--db", db)
	assert.Contains(t, execute(t, "identity", "--db", db), "asha@example.com")

	assert.Contains(t, execute(t, "draft", "--db", db), "No saved drafts.")
	assert.Contains(t, execute(t, "events", "--db", db), "No events found.")
}
