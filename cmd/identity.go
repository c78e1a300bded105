package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show or set the email used with the guidance service",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := loadSession(cmd, s)
		if err != nil {
			return err
		}
		if sess.Identity == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No identity set.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.Identity)
		return nil
	},
}

var identitySetCmd = &cobra.Command{
	Use:   "set <email>",
	Short: "Set the identity; switching users clears interview progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := loadSession(cmd, s)
		if err != nil {
			return err
		}
		if err := sess.SetIdentity(cmd.Context(), args[0]); err != nil {
			return err
		}
		if err := sess.Save(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Identity set to", sess.Identity)
		return nil
	},
}

func init() {
	identityCmd.AddCommand(identitySetCmd)
}
