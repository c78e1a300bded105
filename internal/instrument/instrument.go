// Package instrument defines the psychometric question banks a test run
// walks through.
package instrument

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/abhisek/pathwise/internal/scoring"
)

// Option is one fixed choice with the score it contributes.
type Option struct {
	Label string  `yaml:"label" json:"label"`
	Score float64 `yaml:"score" json:"score"`
}

// Question is a static prompt belonging to a category.
type Question struct {
	Category string   `yaml:"category" json:"category"`
	Text     string   `yaml:"text" json:"text"`
	Options  []Option `yaml:"options,omitempty" json:"options,omitempty"`
}

// Instrument is a named, versioned question bank with its level scheme.
type Instrument struct {
	// Name is the endpoint slug, e.g. "big-five".
	Name string `yaml:"name" json:"name"`
	// Test is the label sent in the submission payload.
	Test    string `yaml:"test" json:"test"`
	Title   string `yaml:"title" json:"title"`
	Version string `yaml:"version" json:"version"`

	Questions  []Question         `yaml:"questions" json:"questions"`
	Thresholds scoring.Thresholds `yaml:"thresholds" json:"thresholds"`

	// Explanations maps category -> level -> description.
	Explanations map[string]map[string]string `yaml:"explanations,omitempty" json:"explanations,omitempty"`
}

var (
	ErrNoQuestions    = errors.New("instrument has no questions")
	ErrInvalidVersion = errors.New("instrument version is not valid semver")
	ErrNoOptions      = errors.New("question has no options")
	ErrNoFallback     = errors.New("level scheme has no fallback label")
)

// Validate checks the bank is usable.
func (in *Instrument) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("instrument: missing name")
	}
	if in.Test == "" {
		return fmt.Errorf("instrument %s: missing test label", in.Name)
	}
	if !semver.IsValid(in.Version) {
		return fmt.Errorf("instrument %s: %w: %q", in.Name, ErrInvalidVersion, in.Version)
	}
	if len(in.Questions) == 0 {
		return fmt.Errorf("instrument %s: %w", in.Name, ErrNoQuestions)
	}
	for i, q := range in.Questions {
		if q.Category == "" {
			return fmt.Errorf("instrument %s: question %d has no category", in.Name, i+1)
		}
		if q.Text == "" {
			return fmt.Errorf("instrument %s: question %d has no text", in.Name, i+1)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("instrument %s: question %d: %w", in.Name, i+1, ErrNoOptions)
		}
	}
	if in.Thresholds.Default.Fallback == "" {
		return fmt.Errorf("instrument %s: default thresholds: %w", in.Name, ErrNoFallback)
	}
	for cat, s := range in.Thresholds.ByCategory {
		if s.Fallback == "" {
			return fmt.Errorf("instrument %s: thresholds for %s: %w", in.Name, cat, ErrNoFallback)
		}
	}
	return nil
}

// Len returns the number of questions.
func (in *Instrument) Len() int {
	return len(in.Questions)
}

// Categories returns the distinct categories in question order.
func (in *Instrument) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range in.Questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}

// Explain returns the description for a category at a level, if any.
func (in *Instrument) Explain(category, level string) string {
	byLevel, ok := in.Explanations[category]
	if !ok {
		return ""
	}
	return byLevel[level]
}

// Compatible reports whether a draft recorded against version can be
// resumed with this bank. Drafts survive minor and patch bumps only.
func (in *Instrument) Compatible(version string) bool {
	if !semver.IsValid(version) {
		return false
	}
	return semver.Major(version) == semver.Major(in.Version)
}
