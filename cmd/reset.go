package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget identity, drafts and interview progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this deletes all local session data; re-run with --yes to confirm")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := loadSession(cmd, s)
		if err != nil {
			return err
		}
		if err := sess.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session data cleared. The event log is kept.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
