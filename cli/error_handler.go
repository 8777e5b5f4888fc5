package cli

import (
	"fmt"
	"os"

	"github.com/branchflow/branchflow/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ Configuration not found. Run 'branchflow config reset' to create one.\n")
		return err

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "❌ Configuration is invalid:\n")
		if flowErr, ok := err.(*errors.FlowError); ok {
			if problems, ok := flowErr.Details["problems"].([]string); ok {
				for _, p := range problems {
					fmt.Fprintf(os.Stderr, "  - %s\n", p)
				}
			}
		}
		fmt.Fprintf(os.Stderr, "Fix branchflow.yml or run 'branchflow config reset'.\n")
		return err

	case errors.ErrCodeConflictDetected:
		fmt.Fprintf(os.Stderr, "❌ Merge produced conflicts. Resolve them and commit before retrying:\n")
		if flowErr, ok := err.(*errors.FlowError); ok {
			if files, ok := flowErr.Details["files"].([]string); ok {
				for _, f := range files {
					fmt.Fprintf(os.Stderr, "  - %s\n", f)
				}
			}
		}
		return err

	case errors.ErrCodeGitDirty:
		fmt.Fprintf(os.Stderr, "❌ Working copy has uncommitted changes.\n")
		fmt.Fprintf(os.Stderr, "Commit them first, e.g. 'branchflow commit \"<message>\"'.\n")
		return err

	case errors.ErrCodeNotFeature:
		if flowErr, ok := err.(*errors.FlowError); ok {
			fmt.Fprintf(os.Stderr, "❌ '%v' is not a feature branch.\n", flowErr.Details["branch"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ The current branch is not a feature branch.\n")
		}
		fmt.Fprintf(os.Stderr, "Switch to a branch matching a configured feature pattern.\n")
		return err

	case errors.ErrCodeBranchExists:
		if flowErr, ok := err.(*errors.FlowError); ok {
			fmt.Fprintf(os.Stderr, "❌ Branch '%v' already exists.\n", flowErr.Details["branch"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ The branch already exists.\n")
		}
		return err

	case errors.ErrCodeBusy:
		fmt.Fprintf(os.Stderr, "❌ Another workflow is already running. Wait for it to finish.\n")
		return err

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(os.Stderr, "❌ Required command not found. Make sure git is installed and on PATH.\n")
		return err

	default:
		// Generic error handling
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if flowErr, ok := err.(*errors.FlowError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", flowErr.ToJSON())
			}
		}
		return err
	}
}
