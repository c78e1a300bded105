package scoring

import (
	"encoding/json"
	"fmt"
)

// Answer is a single recorded response to a question. A skipped answer
// carries no value and is excluded from aggregation.
type Answer struct {
	Category string
	Value    float64
	Skipped  bool
}

// Scored returns an answer with the given value.
func Scored(category string, value float64) Answer {
	return Answer{Category: category, Value: value}
}

// Skip returns a skip marker for the category.
func Skip(category string) Answer {
	return Answer{Category: category, Skipped: true}
}

type answerJSON struct {
	Category string   `json:"category"`
	Value    *float64 `json:"value"`
}

// MarshalJSON encodes a skip as a null value.
func (a Answer) MarshalJSON() ([]byte, error) {
	out := answerJSON{Category: a.Category}
	if !a.Skipped {
		v := a.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null or missing value as a skip.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var in answerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	if in.Category == "" {
		return fmt.Errorf("decode answer: missing category")
	}
	a.Category = in.Category
	if in.Value == nil {
		a.Value = 0
		a.Skipped = true
		return nil
	}
	a.Value = *in.Value
	a.Skipped = false
	return nil
}
