package scoring

// Score is the wire form of a category summary.
type Score struct {
	Average float64 `json:"average"`
	Level   string  `json:"level"`
}

// Submission is the payload sent to the score ingestion endpoint once a
// run finishes. Instrument selects the endpoint and is not serialized.
type Submission struct {
	Identity   string           `json:"email"`
	Test       string           `json:"test"`
	Scores     map[string]Score `json:"scores"`
	Instrument string           `json:"-"`
}

// NewSubmission builds the ingestion payload from summaries.
func NewSubmission(identity, instrument, test string, sums []CategorySummary) Submission {
	scores := make(map[string]Score, len(sums))
	for _, s := range sums {
		scores[s.Category] = Score{Average: s.Average, Level: s.Level}
	}
	return Submission{
		Identity:   identity,
		Test:       test,
		Scores:     scores,
		Instrument: instrument,
	}
}
