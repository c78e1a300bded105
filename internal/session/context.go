// Package session holds the per-user state that survives between runs:
// identity, the intake draft, cross-exam progress and in-progress test
// drafts. State is loaded and saved explicitly through a KV store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// KV is the persistence the context needs. store.KVRepo satisfies it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

const (
	keyIdentity  = "identity"
	keyIntake    = "intake"
	keyCrossExam = "crossexam"
	keyReportJob = "report.job"
	prefixTest   = "test."
)

// ErrNoIdentity is returned by RequireIdentity when no identity is set.
var ErrNoIdentity = errors.New("no identity configured: set one with `pathwise identity set <email>`")

// IntakeDraft is the partially completed intake form.
type IntakeDraft struct {
	Step   int               `json:"step"`
	Values map[string]string `json:"values"`
}

// CrossExamState tracks the cross-examination conversation.
type CrossExamState struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers,omitempty"`
	Round     int      `json:"round"`
	Done      bool     `json:"done"`
}

// Context is the explicit session object. It is not safe for concurrent
// writers; the process owns it for the lifetime of a command.
type Context struct {
	Identity  string
	Intake    IntakeDraft
	CrossExam CrossExamState
	ReportJob string

	kv KV
}

var validate = validator.New()

// Load reads every session value from kv. Missing keys leave zero values.
func Load(ctx context.Context, kv KV) (*Context, error) {
	c := &Context{kv: kv}

	if err := c.read(ctx, keyIdentity, &c.Identity); err != nil {
		return nil, err
	}
	if err := c.read(ctx, keyIntake, &c.Intake); err != nil {
		return nil, err
	}
	if err := c.read(ctx, keyCrossExam, &c.CrossExam); err != nil {
		return nil, err
	}
	if err := c.read(ctx, keyReportJob, &c.ReportJob); err != nil {
		return nil, err
	}
	if c.Intake.Values == nil {
		c.Intake.Values = make(map[string]string)
	}
	return c, nil
}

// Save writes every session value back to the store.
func (c *Context) Save(ctx context.Context) error {
	values := []struct {
		key string
		v   any
	}{
		{keyIdentity, c.Identity},
		{keyIntake, c.Intake},
		{keyCrossExam, c.CrossExam},
		{keyReportJob, c.ReportJob},
	}
	for _, kv := range values {
		if err := c.write(ctx, kv.key, kv.v); err != nil {
			return err
		}
	}
	return nil
}

// SetIdentity validates and stores the user's email. Switching from one
// user to another drops the previous user's intake draft, cross-exam
// progress, report job and test drafts. Work started before any identity
// was set is kept.
func (c *Context) SetIdentity(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	if c.Identity != "" && !strings.EqualFold(email, c.Identity) {
		if err := c.clearTestDrafts(ctx); err != nil {
			return fmt.Errorf("switch identity: %w", err)
		}
		c.ClearIntake()
		c.ClearCrossExam()
		c.ReportJob = ""
	}
	c.Identity = email
	return nil
}

// RequireIdentity returns the identity or ErrNoIdentity.
func (c *Context) RequireIdentity() (string, error) {
	if c.Identity == "" {
		return "", ErrNoIdentity
	}
	return c.Identity, nil
}

// ClearIntake resets the intake draft.
func (c *Context) ClearIntake() {
	c.Intake = IntakeDraft{Values: make(map[string]string)}
}

// ClearCrossExam resets the cross-exam conversation.
func (c *Context) ClearCrossExam() {
	c.CrossExam = CrossExamState{}
}

// Reset wipes every session value, including test drafts, from the store.
func (c *Context) Reset(ctx context.Context) error {
	keys, err := c.kv.Keys(ctx, "")
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if err := c.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	*c = Context{kv: c.kv, Intake: IntakeDraft{Values: make(map[string]string)}}
	return nil
}

func (c *Context) read(ctx context.Context, key string, into any) error {
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load session %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("decode session %s: %w", key, err)
	}
	return nil
}

func (c *Context) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	if err := c.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}
