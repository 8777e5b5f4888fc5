package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchflow/branchflow/errors"
	"github.com/branchflow/branchflow/git"
)

// NewBranchCommand creates the branch command group
func NewBranchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Create and inspect branches",
	}

	cmd.AddCommand(newBranchNewCommand())
	cmd.AddCommand(newBranchListCommand())

	return cmd
}

func newBranchNewCommand() *cobra.Command {
	var prefix string
	var base string

	cmd := &cobra.Command{
		Use:   "new <description>",
		Short: "Create a branch named {prefix}/{date}/{description}_{author}",
		Long: `Generates a branch name from the description, today's date and the
author, then creates and checks out the branch. The prefix defaults to
the configured default prefix; the author comes from the configuration
or, failing that, from git config user.name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := args[0]
			handler := NewErrorHandler(GetOptions(cmd).Verbose)

			if !git.ValidateDescription(description) {
				return handler.Handle(errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("invalid description '%s': use letters, digits, CJK, '_' or '-'", description)))
			}

			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return handler.Handle(err)
			}

			if prefix == "" {
				if p := cfg.DefaultBranchPrefix(); p != nil {
					prefix = p.Prefix
				} else {
					prefix = "feature"
				}
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			repo := git.Open(cwd)

			author := cfg.Author
			if author == "" {
				author, _ = repo.UserName(cmd.Context())
			}
			if author == "" {
				author = "unknown"
			}

			name := git.GenerateBranchName(prefix, description, time.Now(), author)

			engine, err := NewEngine(cmd)
			if err != nil {
				return err
			}
			outcome := <-engine.CreateBranch(cmd.Context(), name, base)
			return reportOutcome(cmd, outcome)
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Branch prefix (defaults to the configured default)")
	cmd.Flags().StringVarP(&base, "base", "b", "", "Base branch to start from (defaults to the current HEAD)")

	return cmd
}

func newBranchListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List local branches, marking feature branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := OpenStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(err)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			repo := git.Open(cwd)

			branches, err := repo.LocalBranches(cmd.Context())
			if err != nil {
				return NewErrorHandler(GetOptions(cmd).Verbose).Handle(err)
			}

			if GetOptions(cmd).JSONOutput {
				type entry struct {
					Name      string `json:"name"`
					IsFeature bool   `json:"is_feature"`
				}
				entries := make([]entry, 0, len(branches))
				for _, b := range branches {
					entries = append(entries, entry{Name: b, IsFeature: git.IsFeatureBranch(b, cfg.FeaturePatterns)})
				}
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			for _, b := range branches {
				marker := " "
				if git.IsFeatureBranch(b, cfg.FeaturePatterns) {
					marker = "F"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, b)
			}
			return nil
		},
	}
}
