package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// KVRepo stores opaque session values by key.
type KVRepo interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put inserts or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Keys lists keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// SubmissionEventData captures one attempt to transmit a finished run.
type SubmissionEventData struct {
	RunID        string
	Instrument   string
	Identity     string
	Scores       json.RawMessage
	Success      bool
	ErrorMessage string
}

// ReportEventData captures a report poller transition.
type ReportEventData struct {
	JobID        string
	State        string
	Stage        int
	Polls        int
	ErrorMessage string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventKind names the table an EventRecord came from.
type EventKind string

const (
	KindSubmission EventKind = "submission"
	KindReport     EventKind = "report"
	KindLLMRequest EventKind = "llm_request"
)

// EventRecord is a flattened view of any event for listing.
type EventRecord struct {
	Sequence  int64
	Timestamp time.Time
	Kind      EventKind
	Summary   string
	Success   bool
	Error     string
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSubmission records a score submission attempt.
	AppendSubmission(ctx context.Context, data SubmissionEventData) error

	// AppendReport records a report poller transition.
	AppendReport(ctx context.Context, data ReportEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Recent returns events across all kinds, newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]EventRecord, error)
}
