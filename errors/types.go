package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Workflow errors
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrCodeConflictDetected   ErrorCode = "CONFLICT_DETECTED"
	ErrCodeBusy               ErrorCode = "BUSY"

	// Command execution errors
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"

	// Git errors
	ErrCodeGitDirty     ErrorCode = "GIT_DIRTY"
	ErrCodeBranchExists ErrorCode = "BRANCH_EXISTS"
	ErrCodeNotFeature   ErrorCode = "NOT_FEATURE_BRANCH"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// FlowError represents a structured error with context
type FlowError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *FlowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FlowError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *FlowError) WithDetail(key string, value interface{}) *FlowError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *FlowError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new FlowError
func New(code ErrorCode, message string) *FlowError {
	return &FlowError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a FlowError
func Wrap(err error, code ErrorCode, message string) *FlowError {
	return &FlowError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific FlowError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	flowErr, ok := err.(*FlowError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return flowErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	flowErr, ok := err.(*FlowError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return flowErr.Code
}
