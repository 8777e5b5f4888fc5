package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/conventional"
	"github.com/branchflow/branchflow/errors"
	"github.com/branchflow/branchflow/git"
)

// NewCommitCommand creates the commit command
func NewCommitCommand() *cobra.Command {
	var mergeTarget string
	var lintConventional bool

	cmd := &cobra.Command{
		Use:   "commit <message>",
		Short: "Stage all changes and commit them",
		Long: `Stages everything in the working copy and commits it with the given
message. With --merge, the merge workflow toward the given target runs
immediately after the commit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := args[0]
			handler := NewErrorHandler(GetOptions(cmd).Verbose)

			if !git.ValidateCommitMessage(message) {
				return handler.Handle(errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("commit message must be non-blank and at most %d characters", git.MaxCommitMessageLength)))
			}
			if lintConventional {
				if err := conventional.Lint(message); err != nil {
					return handler.Handle(errors.New(errors.ErrCodeInvalidInput, err.Error()))
				}
			}

			engine, err := NewEngine(cmd)
			if err != nil {
				return err
			}

			outcome := <-engine.QuickCommit(cmd.Context(), message, mergeTarget)
			return reportOutcome(cmd, outcome)
		},
	}

	cmd.Flags().StringVarP(&mergeTarget, "merge", "m", "", "Run the merge workflow toward this target after committing")
	cmd.Flags().BoolVar(&lintConventional, "conventional", false, "Require a conventional commit message")

	return cmd
}
