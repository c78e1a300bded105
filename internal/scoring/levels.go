package scoring

import "sort"

// Band is one level in a LevelScheme. An average qualifies for the band
// when it is >= Min, or > Min when Strict is set.
type Band struct {
	Label  string  `yaml:"label" json:"label"`
	Min    float64 `yaml:"min" json:"min"`
	Strict bool    `yaml:"strict,omitempty" json:"strict,omitempty"`
}

func (b Band) admits(avg float64) bool {
	if b.Strict {
		return avg > b.Min
	}
	return avg >= b.Min
}

// LevelScheme maps an average onto a discrete label. Bands are scanned
// from the highest threshold down; the first one admitting the average
// wins. Averages below every band get Fallback.
type LevelScheme struct {
	Bands    []Band `yaml:"bands" json:"bands"`
	Fallback string `yaml:"fallback" json:"fallback"`
}

// NewLevelScheme returns a scheme with the bands ordered high to low.
func NewLevelScheme(fallback string, bands ...Band) LevelScheme {
	return LevelScheme{Bands: orderBands(bands), Fallback: fallback}
}

func orderBands(bands []Band) []Band {
	out := append([]Band(nil), bands...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Min != out[j].Min {
			return out[i].Min > out[j].Min
		}
		// At an equal threshold the inclusive band is the higher one.
		return !out[i].Strict && out[j].Strict
	})
	return out
}

// Level returns the label for avg.
func (s LevelScheme) Level(avg float64) string {
	for _, b := range orderBands(s.Bands) {
		if b.admits(avg) {
			return b.Label
		}
	}
	return s.Fallback
}

// Rank returns the position of label in the scheme counted from the
// bottom (Fallback is 0). Unknown labels return -1.
func (s LevelScheme) Rank(label string) int {
	if label == s.Fallback {
		return 0
	}
	bands := orderBands(s.Bands)
	for i, b := range bands {
		if b.Label == label {
			return len(bands) - i
		}
	}
	return -1
}

// Labels lists every label from lowest to highest.
func (s LevelScheme) Labels() []string {
	bands := orderBands(s.Bands)
	out := []string{s.Fallback}
	for i := len(bands) - 1; i >= 0; i-- {
		out = append(out, bands[i].Label)
	}
	return out
}

// FivePoint is the scheme used by likert instruments on a 1..5 scale:
// <= 2.4 is low, >= 3.7 is high.
var FivePoint = NewLevelScheme("low",
	Band{Label: "high", Min: 3.7},
	Band{Label: "medium", Min: 2.4, Strict: true},
)

// ThreeBand is the scheme used by scored fixed-choice instruments.
var ThreeBand = NewLevelScheme("Low",
	Band{Label: "High", Min: 4},
	Band{Label: "Medium", Min: 2.5},
)

// Thresholds selects a LevelScheme per category.
type Thresholds struct {
	Default    LevelScheme            `yaml:"default" json:"default"`
	ByCategory map[string]LevelScheme `yaml:"by_category,omitempty" json:"by_category,omitempty"`
}

// Uniform returns thresholds applying s to every category.
func Uniform(s LevelScheme) Thresholds {
	return Thresholds{Default: s}
}

// For returns the scheme for category.
func (t Thresholds) For(category string) LevelScheme {
	if s, ok := t.ByCategory[category]; ok {
		return s
	}
	return t.Default
}
