package crossexam

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/crossexam"
	"github.com/abhisek/pathwise/internal/report"
)

// fakeService hands out one round of questions and one of follow-ups.
type fakeService struct {
	rounds    [][]string
	round     int
	done      bool
	submitted [][]string
	submitErr error
}

func (f *fakeService) Questions(context.Context) ([]string, error) {
	if f.done {
		return nil, crossexam.ErrDone
	}
	return f.rounds[f.round], nil
}

func (f *fakeService) Submit(_ context.Context, answers []string) (*crossexam.Evaluation, error) {
	f.submitted = append(f.submitted, answers)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.round+1 < len(f.rounds) {
		f.round++
		return &crossexam.Evaluation{FollowupQuestions: f.rounds[f.round]}, nil
	}
	f.done = true
	return &crossexam.Evaluation{Analysis: &report.CareerReport{FriendlySummary: "You like building things."}}, nil
}

func (f *fakeService) Round() int { return f.round }
func (f *fakeService) Done() bool { return f.done }

func loaded(t *testing.T, s *CrossExamScreen) {
	t.Helper()
	_, _ = s.Update(s.fetch()())
	require.False(t, s.busy)
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func TestCrossExamScreen_BlankAnswersRejected(t *testing.T) {
	svc := &fakeService{rounds: [][]string{{"Why design?", "Favourite project?"}}}
	s := New(svc, nil)
	loaded(t, s)

	s.inputs[0].SetValue("I like it")
	s.Update(enter()) // moves to the second field
	assert.Equal(t, 1, s.focus)

	_, cmd := s.Update(enter())
	assert.Nil(t, cmd)
	assert.Equal(t, "Please answer all questions before submitting.", s.errMsg)
	assert.Empty(t, svc.submitted)
}

func TestCrossExamScreen_FollowupRoundThenDone(t *testing.T) {
	svc := &fakeService{rounds: [][]string{{"Why design?"}, {"Tell me more."}}}
	s := New(svc, nil)
	loaded(t, s)

	s.inputs[0].SetValue("Because it is fun")
	_, cmd := s.Update(enter())
	require.NotNil(t, cmd)
	assert.True(t, s.busy)

	// The batch carries the spinner tick and the submit; run the submit.
	ev, err := svc.Submit(context.Background(), s.Answers())
	s.Update(evaluatedMsg{Eval: ev, Err: err})
	require.True(t, s.busy, "follow-ups are fetched next")
	loaded(t, s)

	assert.Equal(t, []string{"Tell me more."}, s.questions)
	assert.Contains(t, s.View(80, 24), "Follow-up round 1")

	s.inputs[0].SetValue("Mostly furniture")
	ev, err = svc.Submit(context.Background(), s.Answers())
	s.Update(evaluatedMsg{Eval: ev, Err: err})

	assert.True(t, s.finished)
	view := s.View(80, 24)
	assert.Contains(t, view, "Cross-examination complete")
	assert.Contains(t, view, "You like building things.")
}

func TestCrossExamScreen_SubmitErrorKeepsAnswers(t *testing.T) {
	svc := &fakeService{rounds: [][]string{{"Why design?"}}, submitErr: errors.New("service unavailable")}
	s := New(svc, nil)
	loaded(t, s)

	s.inputs[0].SetValue("Because")
	s.Update(evaluatedMsg{Err: svc.submitErr})
	assert.False(t, s.finished)
	assert.Equal(t, []string{"Because"}, s.Answers())
	assert.Contains(t, s.View(80, 24), "service unavailable")
}

func TestCrossExamScreen_PrefillsSavedAnswers(t *testing.T) {
	svc := &fakeService{rounds: [][]string{{"Q1", "Q2"}}}
	s := New(svc, []string{"kept one", "kept two"})
	loaded(t, s)

	assert.Equal(t, []string{"kept one", "kept two"}, s.Answers())
}

func TestCrossExamScreen_AlreadyDone(t *testing.T) {
	s := New(&fakeService{done: true}, nil)
	loaded(t, s)

	assert.True(t, s.finished)
	assert.Len(t, s.KeyHints(), 1)
}

func TestCrossExamScreen_TabWraps(t *testing.T) {
	s := New(&fakeService{rounds: [][]string{{"Q1", "Q2", "Q3"}}}, nil)
	loaded(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, 2, s.focus, "shift+tab from the first field wraps to the last")
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 0, s.focus)
}
