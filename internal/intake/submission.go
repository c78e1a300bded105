package intake

import (
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNoIdentity is returned when building a payload without an email.
var ErrNoIdentity = errors.New("no identity configured: set one with `pathwise identity set <email>`")

// Submission is the /submit-info payload: one object per step, with the
// email inside the personal section.
type Submission map[string]map[string]any

// Identity returns the email carried in the personal section.
func (s Submission) Identity() string {
	if p, ok := s["personal"]; ok {
		if e, ok := p["email"].(string); ok {
			return e
		}
	}
	return ""
}

// ResumePath returns the resume file to upload, if the user has one.
func (s Submission) ResumePath() string {
	sw := s["strengthsWeaknesses"]
	if sw == nil || sw["hasResume"] != "Yes" {
		return ""
	}
	p, _ := sw["resumeFile"].(string)
	return p
}

// Build validates the draft and converts it into a payload. Numbers are
// encoded as numbers and multi-choice fields as arrays; empty optional
// fields are omitted.
func Build(identity string, values map[string]string) (Submission, error) {
	if identity == "" {
		return nil, ErrNoIdentity
	}
	if _, err := ValidateAll(values); err != nil {
		return nil, err
	}

	sub := make(Submission, len(Steps))
	for _, step := range Steps {
		section := make(map[string]any)
		for _, f := range step.Fields {
			v := Value(values, f)
			if v == "" {
				continue
			}
			switch f.Kind {
			case KindNumber:
				n, _ := strconv.ParseFloat(v, 64)
				section[f.Name] = n
			case KindMulti:
				section[f.Name] = SplitMulti(v)
			default:
				section[f.Name] = v
			}
		}
		sub[step.Key] = section
	}
	sub["personal"]["email"] = identity
	return sub, nil
}

// MarshalIndent renders the payload for previews.
func (s Submission) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
