package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/intake"
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Inspect, edit and submit the profile draft",
}

var intakeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the draft and what still needs fixing",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		values := e.sess.Intake.Values
		fmt.Fprintf(out, "Step %d of %d\n", e.sess.Intake.Step+1, len(intake.Steps))
		for _, step := range intake.Steps {
			fmt.Fprintf(out, "\n%s\n", step.Title)
			for _, f := range step.Fields {
				if v := intake.Value(values, f); v != "" {
					fmt.Fprintf(out, "  %-24s %s\n", f.Name, v)
				}
			}
		}

		step, err := intake.ValidateAll(values)
		var errs intake.Errors
		if errors.As(err, &errs) {
			fmt.Fprintf(out, "\n%s needs attention:\n", intake.Steps[step].Title)
			for _, fe := range errs {
				fmt.Fprintf(out, "  %-24s %s\n", fe.Field, fe.Message)
			}
		}
		return nil
	},
}

var intakeSetCmd = &cobra.Command{
	Use:   "set <field>=<value>...",
	Short: "Set draft fields, e.g. fullName=\"Asha Rao\" age=21",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, arg := range args {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected field=value, got %q", arg)
			}
			if _, known := intake.FieldByName(name); !known {
				return fmt.Errorf("unknown field %q", name)
			}
			e.sess.Intake.Values[name] = strings.TrimSpace(value)
		}
		return e.sess.Save(cmd.Context())
	},
}

var intakeSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Validate the draft, send it and upload the resume if attached",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		res, err := intake.Send(ctx, e.client, e.sess.Identity, e.sess.Intake.Values)
		if err != nil {
			return err
		}
		e.sess.ClearIntake()
		if err := e.sess.Save(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Profile submitted.")
		if res.Resume != nil {
			fmt.Fprintf(out, "Resume %s uploaded (%d words).\n", res.Resume.Name, res.Resume.Words())
		}
		return nil
	},
}

var intakeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the profile draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		e.sess.ClearIntake()
		return e.sess.Save(cmd.Context())
	},
}

func init() {
	intakeCmd.AddCommand(intakeShowCmd)
	intakeCmd.AddCommand(intakeSetCmd)
	intakeCmd.AddCommand(intakeSubmitCmd)
	intakeCmd.AddCommand(intakeClearCmd)
}
