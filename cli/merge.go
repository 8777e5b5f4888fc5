package cli

import (
	"github.com/spf13/cobra"
)

// NewMergeCommand creates the merge command
func NewMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <target>",
		Short: "Merge the current feature branch into a target branch",
		Long: `Runs the full merge workflow from the current feature branch:

  1. Update the main branch from its remote
  2. Merge main into the feature branch and push it
  3. Merge the feature branch into the target and push it
  4. Return to the feature branch

The workflow stops at the first failure. Nothing is rolled back; fix the
problem (or resolve the conflicts) and re-run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := NewEngine(cmd)
			if err != nil {
				return err
			}

			outcome := <-engine.AutoMerge(cmd.Context(), args[0])
			return reportOutcome(cmd, outcome)
		},
	}
}
