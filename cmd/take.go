package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/eventlog"
	"github.com/abhisek/pathwise/internal/instrument"
	"github.com/abhisek/pathwise/internal/scoring"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/testrunner"
)

var takeCmd = &cobra.Command{
	Use:   "take [instrument]",
	Short: "Take a test in line mode; lists instruments without an argument",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		registry, err := instrument.DefaultRegistry(e.cfg.Instrument.Dir)
		if err != nil {
			return fmt.Errorf("load instruments: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, in := range registry.All() {
				fmt.Fprintf(out, "%-12s  %-28s  %d questions  %s\n", in.Name, in.Title, in.Len(), in.Version)
			}
			return nil
		}

		inst, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		return takeTest(cmd.Context(), inst, e.sess, e.client, e.recorder, cmd.InOrStdin(), out)
	},
}

// errQuit stops a line-mode run with the draft kept.
var errQuit = errors.New("quit")

// takeTest drives one run from in to out. Each answer is saved as a
// draft; "s" skips a question and "q" stops with the draft kept.
func takeTest(ctx context.Context, inst *instrument.Instrument, sess *session.Context, submitter testrunner.Submitter, recorder *eventlog.Recorder, in io.Reader, out io.Writer) error {
	var submitted chan error
	opts := []testrunner.Option{testrunner.WithIdentity(sess.Identity)}
	if submitter != nil {
		submitted = make(chan error, 1)
		opts = append(opts,
			testrunner.WithSubmitter(submitter),
			testrunner.OnSubmitted(func(sub scoring.Submission, err error) {
				recorder.Submission(context.Background(), sub, err)
				submitted <- err
			}),
		)
	}

	var r *testrunner.Runner
	answers, _, err := sess.LoadTestDraft(ctx, inst)
	if err != nil {
		fmt.Fprintln(out, "Could not load your saved answers; starting over.")
	}
	if len(answers) > 0 {
		if r, err = testrunner.Resume(inst, answers, opts...); err == nil {
			fmt.Fprintf(out, "Resuming with %d saved answers.\n", len(answers))
		}
	}
	if r == nil {
		r = testrunner.New(inst, opts...)
	}

	lines := bufio.NewScanner(in)
	for !r.Finished() {
		q, _ := r.Current()
		fmt.Fprintf(out, "\n[%d/%d] %s\n", r.Index()+1, inst.Len(), q.Text)
		for i, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o.Label)
		}

		phase, err := askOne(ctx, r, lines, out)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(out, "Progress saved. Run the same command to continue.")
			return nil
		}
		if phase == testrunner.PhaseFinished {
			if clearErr := sess.ClearTestDraft(ctx, inst.Name); clearErr != nil {
				fmt.Fprintln(out, "Warning: could not clear draft:", clearErr)
			}
			printSummaries(out, inst, r.Summaries())
			if err != nil {
				return fmt.Errorf("scores were not submitted: %w", err)
			}
			break
		}
		if err != nil {
			return err
		}
		if err := sess.SaveTestDraft(ctx, inst, r.Answers()); err != nil {
			fmt.Fprintln(out, "Warning: could not save progress:", err)
		}
	}

	if submitted == nil {
		return nil
	}
	select {
	case err := <-submitted:
		if err != nil {
			return fmt.Errorf("submit scores: %w", err)
		}
		fmt.Fprintln(out, "\nScores submitted.")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// askOne reads lines until one is a valid answer.
func askOne(ctx context.Context, r *testrunner.Runner, lines *bufio.Scanner, out io.Writer) (testrunner.Phase, error) {
	q, _ := r.Current()
	for {
		fmt.Fprintf(out, "Answer 1-%d, s to skip, q to quit: ", len(q.Options))
		if !lines.Scan() {
			return r.Phase(), errQuit
		}
		text := strings.ToLower(strings.TrimSpace(lines.Text()))
		switch text {
		case "q":
			return r.Phase(), errQuit
		case "s":
			return r.Skip(ctx)
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintln(out, "Please enter a listed number.")
			continue
		}
		return r.Choose(ctx, n-1)
	}
}

func printSummaries(out io.Writer, inst *instrument.Instrument, sums []scoring.CategorySummary) {
	fmt.Fprintf(out, "\n%s results\n%s\n", inst.Title, strings.Repeat("─", 48))
	for _, s := range sums {
		fmt.Fprintf(out, "%-20s  %5.2f  %s\n", s.Category, s.Average, s.Level)
		if text := inst.Explain(s.Category, s.Level); text != "" {
			fmt.Fprintf(out, "    %s\n", text)
		}
	}
}
