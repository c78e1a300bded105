package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the migrator and the query builders.
const (
	tableKV         = "kv_entries"
	tableSubmission = "submission_events"
	tableReport     = "report_events"
	tableLLMRequest = "llm_request_events"
	colSequence     = "sequence"
	colTimestamp    = "timestamp"
	colName         = "name"
	colValue        = "value"
	colUpdatedAt    = "updated_at"
)

// eventColumns returns the columns every event table starts with.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventTable(name string, extra ...*schema.Column) *schema.Table {
	cols := eventColumns(extra...)
	return &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
}

var (
	kvColumns = []*schema.Column{
		{Name: colName, Type: field.TypeString, Unique: true},
		{Name: colValue, Type: field.TypeBytes},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	// KVTable holds session state, one row per key.
	KVTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	// SubmissionEventsTable records every score submission attempt.
	SubmissionEventsTable = eventTable(tableSubmission,
		&schema.Column{Name: "run_id", Type: field.TypeString},
		&schema.Column{Name: "instrument", Type: field.TypeString},
		&schema.Column{Name: "identity", Type: field.TypeString},
		&schema.Column{Name: "scores", Type: field.TypeJSON},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)

	// ReportEventsTable records report poller transitions.
	ReportEventsTable = eventTable(tableReport,
		&schema.Column{Name: "job_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "state", Type: field.TypeString},
		&schema.Column{Name: "stage", Type: field.TypeInt},
		&schema.Column{Name: "polls", Type: field.TypeInt},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)

	// LLMRequestEventsTable records calls made through the LLM layer.
	LLMRequestEventsTable = eventTable(tableLLMRequest,
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	)

	// Tables lists every table the migrator manages.
	Tables = []*schema.Table{
		KVTable,
		SubmissionEventsTable,
		ReportEventsTable,
		LLMRequestEventsTable,
	}
)
