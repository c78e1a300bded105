package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var crossexamCmd = &cobra.Command{
	Use:   "crossexam",
	Short: "Answer the cross-examination questions in line mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		svc := newCrossExam(ctx, e)
		out := cmd.OutOrStdout()
		lines := bufio.NewScanner(cmd.InOrStdin())

		for !svc.Done() {
			qs, err := svc.Questions(ctx)
			if err != nil {
				return err
			}
			if r := svc.Round(); r > 0 {
				fmt.Fprintf(out, "\nFollow-up round %d\n", r)
			}

			answers := make([]string, len(qs))
			for i, q := range qs {
				fmt.Fprintf(out, "\n%d. %s\n> ", i+1, q)
				for answers[i] == "" {
					if !lines.Scan() {
						return errors.New("input closed before all questions were answered")
					}
					if answers[i] = strings.TrimSpace(lines.Text()); answers[i] == "" {
						fmt.Fprint(out, "An answer is required.\n> ")
					}
				}
			}

			ev, err := svc.Submit(ctx, answers)
			if err != nil {
				return fmt.Errorf("submit answers: %w", err)
			}
			if svc.Done() && ev.Analysis != nil && !ev.Analysis.Empty() {
				fmt.Fprintf(out, "\nWhat we learned\n%s\n", ev.Analysis.Summary())
			}
		}

		fmt.Fprintln(out, "\nCross-examination complete. Run `pathwise report` for your career report.")
		return nil
	},
}

var crossexamResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget cached questions and start the interview over",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		e.sess.ClearCrossExam()
		return e.sess.Save(cmd.Context())
	},
}

func init() {
	crossexamCmd.AddCommand(crossexamResetCmd)
}
