package command

import (
	"bytes"
	"context"
	"strings"
)

// Result is the normalized outcome of a single git subcommand: exit
// success, stdout split into lines, and an error string combining stderr
// with any execution failure. The orchestrator funnels every git call
// through this shape.
type Result struct {
	Success bool
	Lines   []string
	Err     string
}

// Output rejoins the stdout lines
func (r Result) Output() string {
	return strings.Join(r.Lines, "\n")
}

// GitRunner runs one git subcommand against a repository root. Production
// code uses Runner; tests inject a MockRunner.
type GitRunner interface {
	Run(ctx context.Context, args ...string) Result
}

// Runner is the production GitRunner. It is a thin synchronous adapter:
// one invocation per call, no retries, no queueing, no timeout. A hung
// git invocation blocks its workflow until the caller's context ends.
type Runner struct {
	root    string
	builder *SafeBuilder
}

// NewRunner creates a Runner for the repository at root
func NewRunner(root string) *Runner {
	return &Runner{
		root:    root,
		builder: NewSafeBuilder(),
	}
}

// NewRunnerWithExecutor creates a Runner with a custom Executor
func NewRunnerWithExecutor(root string, exec Executor) *Runner {
	return &Runner{
		root:    root,
		builder: NewSafeBuilderWithExecutor(exec),
	}
}

// Root returns the repository root the runner operates on
func (r *Runner) Root() string {
	return r.root
}

// Run executes `git <args...>` in the repository root and normalizes the
// outcome. Any transport or execution error is classified as a failure
// carrying the error text; it never panics or returns a Go error.
func (r *Runner) Run(ctx context.Context, args ...string) Result {
	cmd, err := r.builder.Build(ctx, "git", args...)
	if err != nil {
		return Result{Err: err.Error()}
	}

	execCmd := cmd.Exec()
	execCmd.Dir = r.root

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	runErr := execCmd.Run()

	res := Result{
		Success: runErr == nil,
		Lines:   splitLines(stdout.String()),
	}

	errText := strings.TrimSpace(stderr.String())
	if runErr != nil {
		if errText != "" {
			res.Err = errText
		} else {
			res.Err = runErr.Error()
		}
	}

	return res
}

// splitLines splits command output into lines, dropping a trailing blank
// line but preserving leading whitespace (significant in porcelain output).
func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n\r")
	if out == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
}
