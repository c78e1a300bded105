package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/resume"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <path>",
	Short: "Check a resume file the way an upload would",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := resume.CheckFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:   %s\n", info.Name)
		fmt.Fprintf(out, "Type:   %s\n", info.MIME)
		fmt.Fprintf(out, "Size:   %d bytes\n", info.Size)
		if info.Pages > 0 {
			fmt.Fprintf(out, "Pages:  %d\n", info.Pages)
		}
		if info.Text != "" {
			fmt.Fprintf(out, "Words:  %d\n", info.Words())
		}
		fmt.Fprintln(out, "OK to upload.")
		return nil
	},
}
