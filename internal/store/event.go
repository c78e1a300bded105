package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out one increasing number shared by every event
// table, so a submission, a report transition and an LLM call can be
// ordered against each other even though each has its own row IDs.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo with the dialect builders and the
// shared sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert(table).
		Columns(append([]string{colSequence, colTimestamp}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendSubmission(ctx context.Context, data SubmissionEventData) error {
	scores := data.Scores
	if len(scores) == 0 {
		scores = []byte("{}")
	}
	err := r.insert(ctx, tableSubmission,
		[]string{"run_id", "instrument", "identity", "scores", "success", "error_message"},
		[]any{data.RunID, data.Instrument, data.Identity, string(scores), data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save submission event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendReport(ctx context.Context, data ReportEventData) error {
	err := r.insert(ctx, tableReport,
		[]string{"job_id", "state", "stage", "polls", "error_message"},
		[]any{data.JobID, data.State, data.Stage, data.Polls, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save report event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, tableLLMRequest,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// recentSource describes how to flatten one event table.
type recentSource struct {
	kind    EventKind
	table   string
	columns []string
	summary func(vals []any) string
	success func(vals []any) bool
}

var recentSources = []recentSource{
	{
		kind:    KindSubmission,
		table:   tableSubmission,
		columns: []string{"instrument", "identity", "success", "error_message"},
		summary: func(v []any) string { return fmt.Sprintf("submit %s for %s", str(v[0]), str(v[1])) },
		success: func(v []any) bool { return truthy(v[2]) },
	},
	{
		kind:    KindReport,
		table:   tableReport,
		columns: []string{"job_id", "state", "stage", "error_message"},
		summary: func(v []any) string {
			return fmt.Sprintf("report %s %s (stage %s)", str(v[0]), str(v[1]), str(v[2]))
		},
		success: func(v []any) bool { return str(v[1]) != "failed" },
	},
	{
		kind:    KindLLMRequest,
		table:   tableLLMRequest,
		columns: []string{"provider", "model", "purpose", "success", "error_message"},
		summary: func(v []any) string { return fmt.Sprintf("llm %s/%s %s", str(v[0]), str(v[1]), str(v[2])) },
		success: func(v []any) bool { return truthy(v[3]) },
	},
}

func (r *eventRepo) Recent(ctx context.Context, opts QueryOpts) ([]EventRecord, error) {
	var out []EventRecord
	for _, src := range recentSources {
		recs, err := r.recentFrom(ctx, src, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *eventRepo) recentFrom(ctx context.Context, src recentSource, opts QueryOpts) ([]EventRecord, error) {
	b := builder()
	sel := b.Select(append([]string{colSequence, colTimestamp}, src.columns...)...).
		From(b.Table(src.table)).
		OrderBy(entsql.Desc(colSequence))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(colSequence, opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(colSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(colTimestamp, opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(colTimestamp, opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", src.table, err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		vals := make([]any, len(src.columns))
		dest := []any{&rec.Sequence, &rec.Timestamp}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", src.table, err)
		}
		rec.Kind = src.kind
		rec.Summary = src.summary(vals)
		rec.Success = src.success(vals)
		rec.Error = str(vals[len(vals)-1])
		out = append(out, rec)
	}
	return out, rows.Err()
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case string:
		return t == "1" || t == "true"
	default:
		return false
	}
}
