package cli

import (
	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/version"
)

// NewRootCommand assembles the branchflow CLI
func NewRootCommand() *cobra.Command {
	root := NewStandardCommand(
		"branchflow",
		"Git branch workflow automation",
	)
	root.Long = `branchflow automates the branch choreography of a multi-branch git
workflow: keeping feature branches current with main, merging them into
target branches, quick commits and conventionally named feature
branches. Configuration lives in branchflow.yml next to the repository.`
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.Version = version.GetInfo().Version

	root.AddCommand(NewMergeCommand())
	root.AddCommand(NewCommitCommand())
	root.AddCommand(NewBranchCommand())
	root.AddCommand(NewStatusCommand())
	root.AddCommand(NewConfigCommand())
	root.AddCommand(NewVersionCommand(version.GetInfo()))

	return root
}
