package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/errors"
	"github.com/branchflow/branchflow/flow"
)

// reportOutcome prints a workflow outcome and converts a failure into the
// command's error so the process exits non-zero.
func reportOutcome(cmd *cobra.Command, outcome flow.Outcome) error {
	opts := GetOptions(cmd)

	if opts.JSONOutput {
		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		if !outcome.Success {
			return errors.New(outcome.Code, outcome.Message)
		}
		return nil
	}

	if outcome.Success {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", outcome.Message)
		for _, m := range outcome.Merged {
			fmt.Fprintf(cmd.OutOrStdout(), "  merged %s into %s\n", m.From, m.To)
		}
		return nil
	}

	err := errors.New(outcome.Code, outcome.Message)
	if outcome.IsConflict() {
		err = err.WithDetail("files", outcome.ConflictFiles)
	}
	return NewErrorHandler(opts.Verbose).Handle(err)
}
