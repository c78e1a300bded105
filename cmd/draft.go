package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

// loadSession reads the session without touching config or the network.
func loadSession(cmd *cobra.Command, s *store.Store) (*session.Context, error) {
	sess, err := session.Load(cmd.Context(), s.KVRepo())
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "List saved test drafts",
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
		names, err := sess.TestDrafts(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved drafts.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear [instrument]...",
	Short: "Discard test drafts; all of them without arguments",
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
		names := args
		if len(names) == 0 {
			if names, err = sess.TestDrafts(cmd.Context()); err != nil {
				return err
			}
		}
		for _, n := range names {
			if err := sess.ClearTestDraft(cmd.Context(), n); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d draft(s).\n", len(names))
		return nil
	},
}

func init() {
	draftCmd.AddCommand(draftClearCmd)
}
