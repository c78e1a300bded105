package testrunner

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/scoring"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []scoring.Submission
	err   error
}

func (f *fakeSubmitter) SubmitScores(_ context.Context, sub scoring.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sub)
	return f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func extraversionBank() *instrument.Instrument {
	in := &instrument.Instrument{
		Name: "big-five", Test: "big_five", Version: "v1.0.0",
		Thresholds: scoring.Uniform(scoring.FivePoint),
	}
	for i := 0; i < 5; i++ {
		in.Questions = append(in.Questions, instrument.Question{
			Category: "extraversion", Text: "q", Options: instrument.Likert,
		})
	}
	return in
}

func waitSubmitted(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for submit")
		return nil
	}
}

func TestRunner_ExtraversionScenario(t *testing.T) {
	sub := &fakeSubmitter{}
	done := make(chan error, 1)
	r := New(extraversionBank(),
		WithIdentity("a@b.c"),
		WithSubmitter(sub),
		OnSubmitted(func(_ scoring.Submission, err error) { done <- err }),
	)

	ctx := context.Background()
	for i, v := range []float64{5, 4, 3, 5, 4} {
		phase, err := r.Answer(ctx, v)
		require.NoError(t, err)
		if i < 4 {
			assert.Equal(t, PhasePresenting, phase)
		} else {
			assert.Equal(t, PhaseFinished, phase)
		}
	}

	require.NoError(t, waitSubmitted(t, done))
	require.Equal(t, 1, sub.count())

	got := sub.calls[0]
	assert.Equal(t, "a@b.c", got.Identity)
	assert.Equal(t, "big_five", got.Test)
	assert.Equal(t, "big-five", got.Instrument)
	assert.Equal(t, scoring.Score{Average: 4.2, Level: "high"}, got.Scores["extraversion"])

	sums := r.Summaries()
	require.Len(t, sums, 1)
	assert.Equal(t, 4.2, sums[0].Average)
}

func TestRunner_AptitudeWithSkip(t *testing.T) {
	in := &instrument.Instrument{
		Name: "aptitude", Test: "aptitude", Version: "v1.0.0",
		Questions: []instrument.Question{
			{Category: "Logical", Text: "a"},
			{Category: "Logical", Text: "b"},
			{Category: "Numerical", Text: "c"},
			{Category: "Numerical", Text: "d"},
		},
		Thresholds: scoring.Uniform(scoring.ThreeBand),
	}
	r := New(in, WithIdentity("a@b.c"))
	ctx := context.Background()

	_, err := r.Answer(ctx, 5)
	require.NoError(t, err)
	_, err = r.Skip(ctx)
	require.NoError(t, err)
	_, err = r.Answer(ctx, 5)
	require.NoError(t, err)
	phase, err := r.Answer(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, PhaseFinished, phase)

	want := []scoring.CategorySummary{
		{Category: "Logical", Average: 5, Level: "High", Count: 1},
		{Category: "Numerical", Average: 3.5, Level: "Medium", Count: 2},
	}
	assert.Equal(t, want, r.Summaries())
}

func TestRunner_AnswerCountMatchesTransitions(t *testing.T) {
	in := instrument.BigFive()
	r := New(in, WithIdentity("a@b.c"))
	ctx := context.Background()

	for i := 0; i < in.Len(); i++ {
		assert.Equal(t, i, len(r.Answers()))
		assert.False(t, r.Finished())
		var err error
		if i%3 == 0 {
			_, err = r.Skip(ctx)
		} else {
			_, err = r.Choose(ctx, i%5)
		}
		require.NoError(t, err)
	}
	assert.True(t, r.Finished())
	assert.Equal(t, in.Len(), len(r.Answers()))
	assert.Equal(t, in.Len(), r.Index())
}

func TestRunner_NoTransitionAfterFinished(t *testing.T) {
	sub := &fakeSubmitter{}
	done := make(chan error, 1)
	r := New(extraversionBank(), WithIdentity("x@y.z"), WithSubmitter(sub),
		OnSubmitted(func(_ scoring.Submission, err error) { done <- err }))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := r.Answer(ctx, 3)
		require.NoError(t, err)
	}
	waitSubmitted(t, done)

	_, err := r.Answer(ctx, 3)
	assert.ErrorIs(t, err, ErrFinished)
	_, err = r.Skip(ctx)
	assert.ErrorIs(t, err, ErrFinished)
	_, err = r.Choose(ctx, 0)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Len(t, r.Answers(), 5)
	assert.Equal(t, 1, sub.count())
}

func TestRunner_MissingIdentitySkipsSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	r := New(extraversionBank(), WithSubmitter(sub))
	ctx := context.Background()

	var err error
	for i := 0; i < 5; i++ {
		_, err = r.Answer(ctx, 4)
	}
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.True(t, r.Finished())
	assert.NotEmpty(t, r.Summaries())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, sub.count())
}

func TestRunner_SubmitFailureKeepsState(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection refused")}
	done := make(chan error, 1)
	r := New(extraversionBank(), WithIdentity("a@b.c"), WithSubmitter(sub),
		OnSubmitted(func(_ scoring.Submission, err error) { done <- err }))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := r.Answer(ctx, 2)
		require.NoError(t, err)
	}
	assert.Error(t, waitSubmitted(t, done))
	assert.True(t, r.Finished())
	require.Len(t, r.Summaries(), 1)
	assert.Equal(t, "low", r.Summaries()[0].Level)
}

func TestRunner_SubmitOutlivesCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	sub := submitFunc(func(ctx context.Context, _ scoring.Submission) error {
		time.Sleep(10 * time.Millisecond)
		return ctx.Err()
	})
	r := New(extraversionBank(), WithIdentity("a@b.c"), WithSubmitter(sub),
		OnSubmitted(func(_ scoring.Submission, err error) { done <- err }))
	for i := 0; i < 5; i++ {
		_, err := r.Answer(ctx, 2)
		require.NoError(t, err)
	}
	cancel()
	assert.NoError(t, waitSubmitted(t, done))
}

type submitFunc func(context.Context, scoring.Submission) error

func (f submitFunc) SubmitScores(ctx context.Context, sub scoring.Submission) error {
	return f(ctx, sub)
}

func TestRunner_ChooseUsesOptionScore(t *testing.T) {
	r := New(instrument.Aptitude())
	ctx := context.Background()

	_, err := r.Choose(ctx, 1) // "No" scores 5
	require.NoError(t, err)
	_, err = r.Choose(ctx, 9)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, []scoring.Answer{scoring.Scored("Logical", 5)}, r.Answers())
}

func TestRunner_AnswerRejectsNonFinite(t *testing.T) {
	r := New(extraversionBank())
	ctx := context.Background()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		phase, err := r.Answer(ctx, v)
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Equal(t, PhasePresenting, phase)
	}
	assert.Empty(t, r.Answers())

	_, err := r.Answer(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Index())
}

func TestResume(t *testing.T) {
	in := instrument.Aptitude()
	r, err := Resume(in, []scoring.Answer{scoring.Scored("Logical", 5), scoring.Skip("Numerical")})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Index())

	q, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "Verbal", q.Category)
}

func TestResume_Rejects(t *testing.T) {
	in := instrument.Aptitude()

	_, err := Resume(in, []scoring.Answer{scoring.Scored("Verbal", 5)})
	assert.ErrorContains(t, err, "question is")

	full := make([]scoring.Answer, in.Len())
	for i, q := range in.Questions {
		full[i] = scoring.Skip(q.Category)
	}
	_, err = Resume(in, full)
	assert.ErrorIs(t, err, ErrTooManyAnswers)
}
