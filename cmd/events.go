package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent submissions, report jobs and LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		return listEvents(cmd, limit, store.EventKind(kind))
	},
}

// listEvents prints the newest events, optionally of one kind only.
func listEvents(cmd *cobra.Command, limit int, kind store.EventKind) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := store.QueryOpts{Limit: limit}
	if kind != "" {
		// Filtered after the query; fetch everything.
		opts.Limit = 0
	}
	events, err := s.EventRepo().Recent(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}

	var shown []store.EventRecord
	for _, e := range events {
		if kind != "" && e.Kind != kind {
			continue
		}
		shown = append(shown, e)
		if limit > 0 && len(shown) == limit {
			break
		}
	}
	printEvents(cmd.OutOrStdout(), shown)
	return nil
}

func printEvents(out io.Writer, events []store.EventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found.")
		return
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-11s  %-48s  %s\n", "Seq", "Timestamp", "Kind", "Summary", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 92))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-11s  %-48s  %s\n",
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			truncate(e.Summary, 48),
			ok,
		)
		if e.Error != "" {
			fmt.Fprintf(out, "       %s\n", e.Error)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().StringP("kind", "k", "", "Only show one kind: submission, report or llm_request")
}
