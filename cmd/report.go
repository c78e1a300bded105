package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the career report and print it as Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		errOut := cmd.ErrOrStderr()
		lastStage := -1
		p := report.NewPoller(e.client,
			report.WithInterval(e.cfg.Report.PollInterval),
			report.WithObserver(e.recorder.ReportObserver(func(s report.Snapshot) {
				if s.State == report.StatePolling && s.Stage != lastStage {
					lastStage = s.Stage
					fmt.Fprintf(errOut, "[%d/%d] %s\n", s.Stage+1, len(report.Stages), s.StageLabel)
				}
			})),
		)
		if err := p.Start(ctx, e.sess.Identity); err != nil {
			return err
		}
		defer p.Stop()

		snap, err := p.Wait(ctx)
		if err != nil {
			return fmt.Errorf("report cancelled: %w", err)
		}
		if snap.JobID != "" {
			e.sess.ReportJob = snap.JobID
			if err := e.sess.Save(ctx); err != nil {
				fmt.Fprintln(errOut, "Warning: could not save report job:", err)
			}
		}
		if snap.State != report.StateSucceeded {
			if snap.Err == nil {
				return errors.New("report generation failed")
			}
			return fmt.Errorf("report generation failed: %w", snap.Err)
		}

		out := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			out = f
		}
		if err := report.WriteMarkdown(out, snap.Result, e.sess.Identity, time.Now()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if outPath != "" {
			fmt.Fprintln(errOut, "Report written to", outPath)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("out", "o", "", "Write the Markdown report to this file instead of stdout")
}
