package crossexam

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/report"
	"github.com/abhisek/pathwise/internal/session"
)

type memKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (k *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *memKV) Put(_ context.Context, key string, v []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.m == nil {
		k.m = map[string][]byte{}
	}
	k.m[key] = v
	return nil
}

func (k *memKV) Delete(_ context.Context, keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range keys {
		delete(k.m, key)
	}
	return nil
}

func (k *memKV) Keys(_ context.Context, prefix string) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []string
	for key := range k.m {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeRemote struct {
	questions   []string
	questionErr error
	followups   [][]string
	submitErr   error

	generated int
	submitted [][]string
}

func (f *fakeRemote) GenerateQuestions(context.Context, string) ([]string, error) {
	f.generated++
	return f.questions, f.questionErr
}

func (f *fakeRemote) SubmitAnswers(_ context.Context, _ string, answers []string) (*Evaluation, error) {
	f.submitted = append(f.submitted, answers)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	ev := &Evaluation{Analysis: &report.CareerReport{FriendlySummary: "ok"}}
	if n := len(f.submitted) - 1; n < len(f.followups) {
		ev.FollowupQuestions = f.followups[n]
	}
	return ev, nil
}

func newSession(t *testing.T, kv session.KV) *session.Context {
	t.Helper()
	s, err := session.Load(context.Background(), kv)
	require.NoError(t, err)
	require.NoError(t, s.SetIdentity(context.Background(), "asha@example.com"))
	return s
}

func TestQuestions_CachedInSession(t *testing.T) {
	ctx := context.Background()
	kv := &memKV{}
	remote := &fakeRemote{questions: []string{"1. What do you enjoy?", "", "2) Where do you see yourself?"}}
	svc := NewService(remote, newSession(t, kv))

	qs, err := svc.Questions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"What do you enjoy?", "Where do you see yourself?"}, qs)

	_, err = svc.Questions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.generated)

	// A fresh process sees the cached questions.
	reloaded, err := session.Load(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, qs, reloaded.CrossExam.Questions)
}

func TestQuestions_NoIdentity(t *testing.T) {
	s, err := session.Load(context.Background(), &memKV{})
	require.NoError(t, err)
	_, err = NewService(&fakeRemote{}, s).Questions(context.Background())
	assert.ErrorIs(t, err, session.ErrNoIdentity)
}

func TestQuestions_EmptyList(t *testing.T) {
	svc := NewService(&fakeRemote{questions: []string{" ", ""}}, newSession(t, &memKV{}))
	_, err := svc.Questions(context.Background())
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.EqualError(t, err, "No questions available at this time.")
}

func TestSubmit_RejectsBlankAnswers(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{questions: []string{"a?", "b?"}}
	svc := NewService(remote, newSession(t, &memKV{}))
	_, err := svc.Questions(ctx)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, []string{"yes", "  "})
	assert.ErrorIs(t, err, ErrUnanswered)
	_, err = svc.Submit(ctx, []string{"yes"})
	assert.ErrorIs(t, err, ErrUnanswered)
	assert.Empty(t, remote.submitted)
}

func TestSubmit_FollowupRoundsAreCapped(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{
		questions: []string{"q1"},
		followups: [][]string{{"f1"}, {"f2"}, {"f3"}},
	}
	sess := newSession(t, &memKV{})
	svc := NewService(remote, sess)

	for round, want := range []string{"q1", "f1", "f2"} {
		qs, err := svc.Questions(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{want}, qs)
		assert.Equal(t, round, svc.Round())

		ev, err := svc.Submit(ctx, []string{"answer"})
		require.NoError(t, err)
		assert.Equal(t, "ok", ev.Analysis.FriendlySummary)
	}

	assert.True(t, svc.Done())
	assert.Len(t, remote.submitted, 3)
	_, err := svc.Questions(ctx)
	assert.ErrorIs(t, err, ErrDone)
}

func TestSubmit_NoFollowupsFinishes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRemote{questions: []string{"q1"}}, newSession(t, &memKV{}))
	_, err := svc.Questions(ctx)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, []string{"a"})
	require.NoError(t, err)
	assert.True(t, svc.Done())
	assert.Equal(t, 0, svc.Round())
}

func TestSubmit_FailureKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t, &memKV{})
	remote := &fakeRemote{questions: []string{"q1"}, submitErr: errors.New("boom")}
	svc := NewService(remote, sess)
	_, err := svc.Questions(ctx)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, []string{"draft"})
	require.Error(t, err)
	assert.Equal(t, []string{"draft"}, sess.CrossExam.Answers)
	assert.False(t, svc.Done())
}

type lockedKV struct {
	*memKV
	locked bool
}

func (k *lockedKV) Put(ctx context.Context, key string, v []byte) error {
	if k.locked {
		return errors.New("database is locked")
	}
	return k.memKV.Put(ctx, key, v)
}

func TestSubmit_FailureReportsSaveError(t *testing.T) {
	ctx := context.Background()
	kv := &lockedKV{memKV: &memKV{}}
	sess := newSession(t, kv)
	remoteErr := errors.New("boom")
	svc := NewService(&fakeRemote{questions: []string{"q1"}, submitErr: remoteErr}, sess)
	_, err := svc.Questions(ctx)
	require.NoError(t, err)

	kv.locked = true
	_, err = svc.Submit(ctx, []string{"draft"})
	assert.ErrorIs(t, err, remoteErr)
	assert.ErrorContains(t, err, "save answers: database is locked")
	assert.Equal(t, []string{"draft"}, sess.CrossExam.Answers)
}

func TestQuestions_FallbackGenerator(t *testing.T) {
	ctx := context.Background()
	sess := newSession(t, &memKV{})
	sess.Intake.Values = map[string]string{"careerGoals": "data science", "resumeFile": "/tmp/cv.pdf"}

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":["What draws you to data?","Which projects made you proud?","How do you learn new tools?"]}`),
	})
	svc := NewService(&fakeRemote{questionErr: errors.New("offline")}, sess, WithFallback(NewLLMGenerator(mock)))

	qs, err := svc.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Equal(t, QuestionsSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "careerGoals: data science")
	assert.NotContains(t, call.Messages[0].Content, "cv.pdf")
}

func TestQuestions_FallbackFails(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(&fakeRemote{questionErr: errors.New("offline")}, newSession(t, &memKV{}),
		WithFallback(NewLLMGenerator(mock)))
	_, err := svc.Questions(context.Background())
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	assert.Equal(t,
		[]string{"Plain", "Numbered", "Paren", "Bullet", "10 years from now?"},
		clean([]string{"Plain", "1. Numbered", "2) Paren", "- Bullet", "10 years from now?", "   "}))
}
