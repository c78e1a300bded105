package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredAll(category string, values ...float64) []Answer {
	out := make([]Answer, 0, len(values))
	for _, v := range values {
		out = append(out, Scored(category, v))
	}
	return out
}

func TestSummarize_SingleCategoryFivePoint(t *testing.T) {
	answers := scoredAll("extraversion", 5, 4, 3, 5, 4)
	got := Summarize(answers, Uniform(FivePoint))

	require.Len(t, got, 1)
	assert.Equal(t, "extraversion", got[0].Category)
	assert.Equal(t, 4.2, got[0].Average)
	assert.Equal(t, "high", got[0].Level)
	assert.Equal(t, 5, got[0].Count)
}

func TestSummarize_SkipsExcludedFromCount(t *testing.T) {
	answers := []Answer{
		Scored("Logical", 5),
		Skip("Logical"),
		Scored("Numerical", 5),
		Scored("Numerical", 2),
	}
	got := Summarize(answers, Uniform(ThreeBand))

	require.Len(t, got, 2)
	assert.Equal(t, CategorySummary{Category: "Logical", Average: 5.0, Level: "High", Count: 1}, got[0])
	assert.Equal(t, CategorySummary{Category: "Numerical", Average: 3.5, Level: "Medium", Count: 2}, got[1])
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil, Uniform(FivePoint)); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v, want empty", got)
	}
}

func TestSummarize_AllSkipped(t *testing.T) {
	answers := []Answer{Skip("openness"), Skip("openness"), Skip("neuroticism")}
	if got := Summarize(answers, Uniform(FivePoint)); len(got) != 0 {
		t.Errorf("Summarize(all skipped) = %v, want empty", got)
	}
}

func TestSummarize_AllSkippedCategoryOmitted(t *testing.T) {
	answers := []Answer{Skip("openness"), Scored("agreeableness", 3)}
	got := Summarize(answers, Uniform(FivePoint))
	require.Len(t, got, 1)
	assert.Equal(t, "agreeableness", got[0].Category)
}

func TestSummarize_FirstOccurrenceOrder(t *testing.T) {
	answers := []Answer{
		Scored("b", 1), Scored("a", 2), Scored("c", 3), Scored("a", 4), Scored("b", 5),
	}
	first := Summarize(answers, Uniform(FivePoint))
	second := Summarize(answers, Uniform(FivePoint))

	var cats []string
	for _, s := range first {
		cats = append(cats, s.Category)
	}
	assert.Equal(t, []string{"b", "a", "c"}, cats)
	assert.Equal(t, first, second)
}

func TestSummarize_RoundsToTwoDecimals(t *testing.T) {
	got := Summarize(scoredAll("x", 1, 2, 2), Uniform(FivePoint))
	require.Len(t, got, 1)
	assert.Equal(t, 1.67, got[0].Average)
}

func TestSummarize_PerCategoryThresholds(t *testing.T) {
	th := Thresholds{
		Default:    FivePoint,
		ByCategory: map[string]LevelScheme{"Verbal": ThreeBand},
	}
	answers := []Answer{Scored("Verbal", 4), Scored("openness", 4)}
	got := Summarize(answers, th)

	require.Len(t, got, 2)
	assert.Equal(t, "High", got[0].Level)
	assert.Equal(t, "high", got[1].Level)
}

func TestSummarize_MeanMatchesArithmetic(t *testing.T) {
	cases := [][]float64{
		{1}, {1, 2}, {3, 3, 4}, {5, 1, 1, 1}, {2, 4, 5, 5, 1, 3},
	}
	for _, values := range cases {
		var sum float64
		for _, v := range values {
			sum += v
		}
		want := Round2(sum / float64(len(values)))
		got := Summarize(scoredAll("c", values...), Uniform(FivePoint))
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0].Average, "values %v", values)
	}
}

func TestSubmission_RoundTrip(t *testing.T) {
	answers := []Answer{
		Scored("Logical", 5), Skip("Logical"),
		Scored("Numerical", 5), Scored("Numerical", 2),
		Scored("Verbal", 1), Scored("Verbal", 5), Scored("Verbal", 0),
	}
	sums := Summarize(answers, Uniform(ThreeBand))
	sub := NewSubmission("a@b.c", "aptitude", "Aptitude", sums)

	data, err := json.Marshal(sub)
	require.NoError(t, err)

	var echo Submission
	require.NoError(t, json.Unmarshal(data, &echo))

	assert.Equal(t, "a@b.c", echo.Identity)
	assert.Equal(t, "Aptitude", echo.Test)
	for _, s := range sums {
		got, ok := echo.Scores[s.Category]
		require.True(t, ok, s.Category)
		assert.Equal(t, s.Average, got.Average)
		assert.Equal(t, s.Level, got.Level)
	}
}

func TestAnswer_JSONSkipIsNull(t *testing.T) {
	data, err := json.Marshal([]Answer{Scored("a", 3), Skip("b")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category":"a","value":3},{"category":"b","value":null}]`, string(data))

	var back []Answer
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Answer{Scored("a", 3), Skip("b")}, back)
}

func TestAnswer_UnmarshalMissingCategory(t *testing.T) {
	var a Answer
	if err := json.Unmarshal([]byte(`{"value":1}`), &a); err == nil {
		t.Error("expected error for missing category")
	}
}
