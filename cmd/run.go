package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/app"
	"github.com/abhisek/pathwise/internal/crossexam"
	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/screens/home"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive app (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	registry, err := instrument.DefaultRegistry(e.cfg.Instrument.Dir)
	if err != nil {
		return fmt.Errorf("load instruments: %w", err)
	}

	// The UI owns the terminal; event write failures are dropped.
	recorder := e.recorder.WithWarnings(io.Discard)

	return app.Run(home.Deps{
		Session:      e.sess,
		Registry:     registry,
		Submitter:    e.client,
		Reports:      e.client,
		Intake:       e.client,
		CrossExam:    newCrossExam(cmd.Context(), e),
		Recorder:     recorder,
		Events:       e.store.EventRepo(),
		PollInterval: e.cfg.Report.PollInterval,
	})
}

// newCrossExam wires the interview service, with a local LLM generator as
// fallback when a provider is configured.
func newCrossExam(ctx context.Context, e *env) *crossexam.Service {
	var opts []crossexam.Option
	if cfg, ok := llm.ConfigFromEnv(); ok {
		provider, err := llm.NewProvider(ctx, cfg, e.store.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Offline question generation will be unavailable.")
		} else {
			opts = append(opts, crossexam.WithFallback(crossexam.NewLLMGenerator(provider)))
		}
	}
	return crossexam.NewService(e.client, e.sess, opts...)
}
