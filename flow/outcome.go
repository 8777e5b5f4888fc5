package flow

import (
	"time"

	"github.com/branchflow/branchflow/errors"
)

// MergeRecord describes one completed merge step.
type MergeRecord struct {
	From string `json:"from"`
	To   string `json:"to"`

	// CommitCount is reported but not computed; it is always 0.
	CommitCount int `json:"commit_count"`

	CompletedAt time.Time `json:"completed_at"`
}

// Outcome is the value every workflow resolves to. Failures are reported
// here, never as errors escaping the workflow boundary. Created fresh per
// operation and never persisted.
type Outcome struct {
	Success bool `json:"success"`

	// Code classifies a failure (empty when Success is true).
	Code errors.ErrorCode `json:"code,omitempty"`

	Message string `json:"message"`

	// ConflictFiles lists unmerged paths when Code is CONFLICT_DETECTED.
	ConflictFiles []string `json:"conflict_files,omitempty"`

	// Merged lists the completed merge steps, in order.
	Merged []MergeRecord `json:"merged,omitempty"`
}

// IsConflict reports whether the outcome failed on detected conflicts
func (o Outcome) IsConflict() bool {
	return o.Code == errors.ErrCodeConflictDetected
}

// IsBusy reports whether the workflow was rejected by the operation lock
func (o Outcome) IsBusy() bool {
	return o.Code == errors.ErrCodeBusy
}

func successOutcome(message string, merged []MergeRecord) Outcome {
	return Outcome{Success: true, Message: message, Merged: merged}
}

func failureOutcome(code errors.ErrorCode, message string) Outcome {
	return Outcome{Code: code, Message: message}
}

// outcomeFromError classifies an error from a step into an Outcome,
// preserving the FlowError code when there is one.
func outcomeFromError(err error) Outcome {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeCommandFailed
	}
	return Outcome{Code: code, Message: err.Error()}
}

func conflictOutcome(from, to string, files []string) Outcome {
	return Outcome{
		Code:          errors.ErrCodeConflictDetected,
		Message:       "merge of " + from + " into " + to + " produced conflicts",
		ConflictFiles: files,
	}
}

func busyOutcome() Outcome {
	return Outcome{Code: errors.ErrCodeBusy, Message: "another workflow is already in progress"}
}
