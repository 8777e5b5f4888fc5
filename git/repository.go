package git

import (
	"context"
	"strings"

	"github.com/branchflow/branchflow/command"
	"github.com/branchflow/branchflow/errors"
)

// Repository exposes the git operations the workflows need, funnelling
// every call through a single command.GitRunner so the whole surface is
// testable with a mock.
type Repository struct {
	runner command.GitRunner
}

// Open creates a Repository running real git against root
func Open(root string) *Repository {
	return &Repository{runner: command.NewRunner(root)}
}

// NewRepository creates a Repository with an injected runner
func NewRepository(runner command.GitRunner) *Repository {
	return &Repository{runner: runner}
}

// run executes one git subcommand and converts a failed result into a
// COMMAND_FAILED error carrying the raw error text.
func (r *Repository) run(ctx context.Context, args ...string) (command.Result, error) {
	res := r.runner.Run(ctx, args...)
	if !res.Success {
		return res, errors.New(errors.ErrCodeCommandFailed, res.Err).
			WithDetail("command", "git "+strings.Join(args, " "))
	}
	return res, nil
}

// CurrentBranch returns the name of the checked-out branch
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	res, err := r.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if len(res.Lines) == 0 {
		return "", errors.New(errors.ErrCodeCommandFailed, "not currently on a branch")
	}
	return strings.TrimSpace(res.Lines[0]), nil
}

// HasUncommittedChanges reports whether the working copy is dirty
func (r *Repository) HasUncommittedChanges(ctx context.Context) (bool, error) {
	res, err := r.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(res.Lines) > 0, nil
}

// Checkout switches to an existing branch
func (r *Repository) Checkout(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "checkout", branch)
	return err
}

// CheckoutNew creates branch and switches to it in one step
func (r *Repository) CheckoutNew(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "checkout", "-b", branch)
	return err
}

// Pull updates the current branch from its upstream
func (r *Repository) Pull(ctx context.Context) error {
	_, err := r.run(ctx, "pull")
	return err
}

// Merge merges branch into the current branch. Conflict detection is the
// caller's job: the post-merge status scan decides, not this exit code.
func (r *Repository) Merge(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "merge", branch)
	return err
}

// Push pushes branch to the remote named origin
func (r *Repository) Push(ctx context.Context, branch string) error {
	_, err := r.run(ctx, "push", "origin", branch)
	return err
}

// StageAll stages every change in the working copy
func (r *Repository) StageAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", ".")
	return err
}

// Commit records the staged changes with the given message
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// LocalBranches lists local branch names
func (r *Repository) LocalBranches(ctx context.Context) ([]string, error) {
	res, err := r.run(ctx, "branch", "--list")
	if err != nil {
		return nil, err
	}
	return parseBranchList(res.Lines), nil
}

// RemoteBranches lists remote-tracking branch names, remote prefix included
func (r *Repository) RemoteBranches(ctx context.Context) ([]string, error) {
	res, err := r.run(ctx, "branch", "-r")
	if err != nil {
		return nil, err
	}
	return parseBranchList(res.Lines), nil
}

// BranchExists reports whether name exists as a local or remote branch.
// Remote-tracking entries are compared on the part after "<remote>/".
func (r *Repository) BranchExists(ctx context.Context, name string) (bool, error) {
	res, err := r.run(ctx, "branch", "-a")
	if err != nil {
		return false, err
	}

	for _, branch := range parseBranchList(res.Lines) {
		if branch == name {
			return true, nil
		}
		if rest, ok := strings.CutPrefix(branch, "remotes/"); ok {
			if _, short, ok := strings.Cut(rest, "/"); ok && short == name {
				return true, nil
			}
		}
	}
	return false, nil
}

// UserName returns the configured git user.name
func (r *Repository) UserName(ctx context.Context) (string, error) {
	res, err := r.run(ctx, "config", "user.name")
	if err != nil {
		return "", err
	}
	if len(res.Lines) == 0 {
		return "", nil
	}
	return strings.TrimSpace(res.Lines[0]), nil
}

// parseBranchList strips the current-branch marker, detached-HEAD entries
// and symbolic refs from `git branch` output.
func parseBranchList(lines []string) []string {
	var branches []string
	for _, line := range lines {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "(") {
			continue
		}
		// "origin/HEAD -> origin/main"
		if strings.Contains(name, "->") {
			continue
		}
		branches = append(branches, name)
	}
	return branches
}
