// Package errors provides structured error types for cspsync with
// category, code, and per-file context, plus exit-code mapping for the
// command-line entrypoint.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig ErrorType = "config"
	ErrorTypeIO     ErrorType = "io"
	ErrorTypePolicy ErrorType = "policy"
	ErrorTypeCheck  ErrorType = "check"
)

// Process exit codes. Exit 1 is reserved for --check detecting pending
// changes; exit 2 for configuration failures that abort the run.
const (
	ExitOK     = 0
	ExitDirty  = 1
	ExitConfig = 2
)

// SyncError is a structured error type with context.
type SyncError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *SyncError) Is(target error) bool {
	var t *SyncError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithFile attaches the path of the file being processed.
func (e *SyncError) WithFile(path string) *SyncError {
	e.FilePath = path

	return e
}

// NewConfigError creates a configuration error. Configuration errors are
// fatal and abort the run before any file is touched.
func NewConfigError(code, message string) *SyncError {
	return &SyncError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error for a single file. I/O errors are
// recoverable: the file is skipped and the batch continues.
func NewIOError(code, message string, cause error) *SyncError {
	return &SyncError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewPolicyError creates a policy error for a single file.
func NewPolicyError(code, message string) *SyncError {
	return &SyncError{
		Type:        ErrorTypePolicy,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// IsRecoverable reports whether processing may continue past err.
func IsRecoverable(err error) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// ExitError carries a process exit code alongside an error. The cmd
// package returns it instead of calling os.Exit so main stays the only
// place that terminates the process.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with an explicit process exit code.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCode extracts the exit code for err. Plain errors map to the
// configuration exit code since the only non-fatal failure path
// (--check) is always reported through an ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}

	return ExitConfig
}
