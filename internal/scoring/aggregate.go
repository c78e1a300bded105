// Package scoring reduces per-question answers into per-category
// averages and level labels.
package scoring

import "math"

// CategorySummary is the aggregate for one category.
type CategorySummary struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
	Level    string  `json:"level"`
	Count    int     `json:"count"`
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Summarize returns one summary per category that has at least one
// non-skipped answer, in order of first appearance. The level is derived
// from the rounded average so a transmitted (average, level) pair is
// always self-consistent.
func Summarize(answers []Answer, th Thresholds) []CategorySummary {
	type acc struct {
		sum   float64
		count int
	}
	var order []string
	totals := make(map[string]*acc)

	for _, a := range answers {
		if a.Skipped {
			continue
		}
		t, ok := totals[a.Category]
		if !ok {
			t = &acc{}
			totals[a.Category] = t
			order = append(order, a.Category)
		}
		t.sum += a.Value
		t.count++
	}

	if len(order) == 0 {
		return nil
	}

	out := make([]CategorySummary, 0, len(order))
	for _, cat := range order {
		t := totals[cat]
		avg := Round2(t.sum / float64(t.count))
		out = append(out, CategorySummary{
			Category: cat,
			Average:  avg,
			Level:    th.For(cat).Level(avg),
			Count:    t.count,
		})
	}
	return out
}

// Find returns the summary for category, if present.
func Find(sums []CategorySummary, category string) (CategorySummary, bool) {
	for _, s := range sums {
		if s.Category == category {
			return s, true
		}
	}
	return CategorySummary{}, false
}
