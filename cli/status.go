package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/git"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current branch and working copy state",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := NewErrorHandler(GetOptions(cmd).Verbose)

			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return handler.Handle(err)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			repo := git.Open(cwd)

			status, err := repo.Status(cmd.Context(), cfg.FeaturePatterns)
			if err != nil {
				return handler.Handle(err)
			}

			if GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Branch:   %s\n", status.Branch)
			fmt.Fprintf(out, "Feature:  %s\n", yesNo(status.IsFeature))
			fmt.Fprintf(out, "Dirty:    %s\n", yesNo(status.IsDirty))
			fmt.Fprintf(out, "Ahead:    %s\n", yesNo(status.Ahead))
			fmt.Fprintf(out, "Remote:   %s\n", yesNo(status.HasRemote))
			return nil
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
