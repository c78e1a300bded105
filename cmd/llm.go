package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/crossexam"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the local question generator and its request log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return listEvents(cmd, limit, store.KindLLMRequest)
	},
}

var llmQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Draft cross-examination questions locally from the profile draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := llm.ConfigFromEnv()
		if !ok {
			return errors.New("no LLM provider configured: set PATHWISE_LLM_PROVIDER (" +
				strings.Join(llm.Providers, ", ") + ") and an API key")
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

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg, s.EventRepo())
		if err != nil {
			return err
		}
		qs, err := crossexam.NewLLMGenerator(provider).Questions(ctx, crossexam.Profile{
			Identity: sess.Identity,
			Values:   sess.Intake.Values,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Model: %s\n\n", provider.ModelID())
		for i, q := range qs {
			fmt.Fprintf(out, "%d. %s\n", i+1, q)
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmQuestionsCmd)
}
