package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Career guidance in your terminal",
	Long: "Pathwise: take personality, interest and aptitude tests, fill in your profile,\n" +
		"answer a short interview and get a career report from the guidance service.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PATHWISE_DB_PATH)")
	rootCmd.PersistentFlags().String("api", "", "Guidance service base URL (overrides PATHWISE_API_URL)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(crossexamCmd)
	rootCmd.AddCommand(intakeCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(devserverCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PATHWISE_DB_PATH env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
