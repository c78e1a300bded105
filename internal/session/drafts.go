package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/scoring"
)

// TestDraft is an in-progress instrument run.
type TestDraft struct {
	Instrument string           `json:"instrument"`
	Version    string           `json:"version"`
	Answers    []scoring.Answer `json:"answers"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func draftKey(name string) string {
	return prefixTest + name
}

// SaveTestDraft records the answers given so far for in.
func (c *Context) SaveTestDraft(ctx context.Context, in *instrument.Instrument, answers []scoring.Answer) error {
	d := TestDraft{
		Instrument: in.Name,
		Version:    in.Version,
		Answers:    answers,
		UpdatedAt:  time.Now().UTC(),
	}
	return c.write(ctx, draftKey(in.Name), d)
}

// LoadTestDraft returns the saved answers for in. A draft recorded against
// an incompatible bank version is deleted and reported as absent.
func (c *Context) LoadTestDraft(ctx context.Context, in *instrument.Instrument) ([]scoring.Answer, bool, error) {
	var d TestDraft
	if err := c.read(ctx, draftKey(in.Name), &d); err != nil {
		return nil, false, err
	}
	if d.Instrument == "" || len(d.Answers) == 0 {
		return nil, false, nil
	}
	if !in.Compatible(d.Version) || len(d.Answers) >= in.Len() {
		if err := c.ClearTestDraft(ctx, in.Name); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return d.Answers, true, nil
}

// ClearTestDraft drops the draft for the named instrument.
func (c *Context) ClearTestDraft(ctx context.Context, name string) error {
	if err := c.kv.Delete(ctx, draftKey(name)); err != nil {
		return fmt.Errorf("clear draft %s: %w", name, err)
	}
	return nil
}

func (c *Context) clearTestDrafts(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}
	keys, err := c.kv.Keys(ctx, prefixTest)
	if err != nil {
		return fmt.Errorf("list drafts: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}
	return nil
}

// TestDrafts lists the instruments that have a saved draft.
func (c *Context) TestDrafts(ctx context.Context) ([]string, error) {
	keys, err := c.kv.Keys(ctx, prefixTest)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, prefixTest))
	}
	return out, nil
}
