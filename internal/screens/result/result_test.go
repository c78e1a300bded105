package result

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/scoring"
)

func summaries() []scoring.CategorySummary {
	return []scoring.CategorySummary{
		{Category: "openness", Average: 4.5, Level: "high", Count: 2},
		{Category: "extraversion", Average: 1, Level: "low", Count: 1},
	}
}

func TestResultScreen_SubmitSucceeds(t *testing.T) {
	ch := make(chan error, 1)
	s := New(instrument.BigFive(), summaries(), ch, nil)
	assert.Equal(t, SubmitPending, s.Status())
	assert.NotNil(t, s.Init())

	ch <- nil
	s.Update(waitSubmitted(ch)())
	assert.Equal(t, SubmitDone, s.Status())
	assert.Contains(t, s.View(100, 30), "Scores submitted")
}

func TestResultScreen_WaitDeliversOutcome(t *testing.T) {
	ch := make(chan error, 1)
	ch <- errors.New("503")
	msg := waitSubmitted(ch)()

	s := New(instrument.BigFive(), summaries(), ch, nil)
	s.Update(msg)
	assert.Equal(t, SubmitFailed, s.Status())
	assert.Contains(t, s.View(100, 30), "503")
}

func TestResultScreen_Offline(t *testing.T) {
	s := New(instrument.BigFive(), summaries(), nil, nil)
	assert.Equal(t, SubmitSkipped, s.Status())
	assert.Nil(t, s.Init())
}

func TestResultScreen_ShowsLevelsAndExplanations(t *testing.T) {
	inst := instrument.BigFive()
	s := New(inst, summaries(), nil, nil)
	view := s.View(100, 30)

	assert.Contains(t, view, "openness")
	assert.Contains(t, view, "4.50")
	assert.Contains(t, view, "You tend to be reserved", "low extraversion is explained")
}

func TestResultScreen_EnterPops(t *testing.T) {
	s := New(instrument.BigFive(), summaries(), nil, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.NotNil(t, cmd)
}
