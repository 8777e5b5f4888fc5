package errors

import (
	"fmt"
	"os/exec"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *FlowError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error carrying the full
// list of violations collected by config validation.
func ConfigInvalid(problems []string) *FlowError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", strings.Join(problems, "; "))).
		WithDetail("problems", problems)
}

// PreconditionFailed creates an error for a workflow precondition that was
// not met. The workflow never starts mutating state in this case.
func PreconditionFailed(reason string) *FlowError {
	return New(ErrCodePreconditionFailed, reason)
}

// NotFeatureBranch creates an error for running a workflow from a branch
// that matches none of the configured feature patterns.
func NotFeatureBranch(branch string) *FlowError {
	return New(ErrCodeNotFeature, fmt.Sprintf("current branch '%s' is not a feature branch", branch)).
		WithDetail("branch", branch)
}

// Dirty creates an error for a working copy with uncommitted changes
func Dirty() *FlowError {
	return New(ErrCodeGitDirty, "working copy has uncommitted changes")
}

// BranchExists creates an error for a branch name that is already taken
func BranchExists(branch string) *FlowError {
	return New(ErrCodeBranchExists, fmt.Sprintf("branch '%s' already exists", branch)).
		WithDetail("branch", branch)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *FlowError {
	flowErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		flowErr = flowErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return flowErr
}

// ConflictDetected creates an error carrying the conflicting file list so
// callers can offer conflict-specific guidance.
func ConflictDetected(files []string) *FlowError {
	return New(ErrCodeConflictDetected, fmt.Sprintf("merge produced %d conflicting file(s)", len(files))).
		WithDetail("files", files)
}

// Busy creates an error for a workflow rejected by the operation lock
func Busy() *FlowError {
	return New(ErrCodeBusy, "another workflow is already in progress")
}
