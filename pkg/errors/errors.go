// Package errors provides the typed error taxonomy for ledgersync.
// Every fatal condition the pipeline can hit maps to one of these types,
// so callers (and tests) assert on error kind and stage instead of
// parsing log output.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
var As = errors.As

// Common sentinel errors.
var (
	// ErrInvalidCredentials indicates the credential payload is missing,
	// malformed, or not a service account key.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDocumentNotFound indicates a remote document does not exist or
	// is not visible to the service account.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPermissionDenied indicates the service account lacks access to
	// a remote document.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput indicates provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// AuthenticationError reports a failure to obtain usable credentials.
// It is always raised before any remote call is made.
type AuthenticationError struct {
	Source  string // "GCP_SA_KEY", "file", etc.
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("authentication error (%s): %s", e.Source, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *AuthenticationError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrInvalidCredentials
}

// NewAuthenticationError creates a new AuthenticationError.
func NewAuthenticationError(source, message string, err error) *AuthenticationError {
	return &AuthenticationError{Source: source, Message: message, Err: err}
}

// ReadError reports a failure reading a remote document.
type ReadError struct {
	Doc        string // "main" or "upload"
	Range      string // A1 range that was requested, if any
	StatusCode int    // HTTP status from the API, 0 if unknown
	Err        error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e.Range != "" {
		return fmt.Sprintf("reading %s document range %s: %v", e.Doc, e.Range, e.Err)
	}
	return fmt.Sprintf("reading %s document: %v", e.Doc, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ReadError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *ReadError) Is(target error) bool {
	switch e.StatusCode {
	case 403:
		return target == ErrPermissionDenied
	case 404:
		return target == ErrDocumentNotFound
	}
	return false
}

// WriteError reports a failure mutating the main document. Op
// distinguishes the write-back operations from the post-processing ones.
type WriteError struct {
	Doc        string // "main"
	Op         string // "overwrite", "append", "clear", "formula"
	Range      string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	if e.Range != "" {
		return fmt.Sprintf("%s of %s document range %s: %v", e.Op, e.Doc, e.Range, e.Err)
	}
	return fmt.Sprintf("%s of %s document: %v", e.Op, e.Doc, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *WriteError) Unwrap() error { return e.Err }

// Is implements errors.Is support.
func (e *WriteError) Is(target error) bool {
	switch e.StatusCode {
	case 403:
		return target == ErrPermissionDenied
	case 404:
		return target == ErrDocumentNotFound
	}
	return false
}

// SchemaError reports a table row that does not satisfy the declared
// layout. Row is the 1-based row number within the sheet (the header is
// row 1). Malformed rows are collected and reported per row; they do not
// abort the run.
type SchemaError struct {
	Doc     string `json:"doc" yaml:"doc"`
	Row     int    `json:"row" yaml:"row"`
	Width   int    `json:"width" yaml:"width"` // observed cell count
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s document row %d (%d cells): %s", e.Doc, e.Row, e.Width, e.Message)
}

// Is implements errors.Is support.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ValidationError represents a validation failure on configuration or
// layout input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// CleanupError reports a failure deleting the upload document. It is
// never fatal: the run surfaces it as a warning and still succeeds.
type CleanupError struct {
	Doc string
	Err error
}

// Error implements the error interface.
func (e *CleanupError) Error() string {
	return fmt.Sprintf("deleting %s document: %v", e.Doc, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *CleanupError) Unwrap() error { return e.Err }

// Stage identifies a pipeline stage. Fatal errors are wrapped in a
// StageError so the process exit code reflects where the run stopped.
type Stage string

// Pipeline stages in execution order.
const (
	StageAuth        Stage = "auth"
	StageLoad        Stage = "load"
	StageMerge       Stage = "merge"
	StageWriteBack   Stage = "write-back"
	StagePostProcess Stage = "post-process"
	StageCleanup     Stage = "cleanup"
)

// StageError wraps a fatal pipeline failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StageError) Unwrap() error { return e.Err }

// ExitCode maps the failed stage to the process exit status. Each fatal
// stage has a distinct code; anything unrecognized is the generic 1.
func (e *StageError) ExitCode() int {
	switch e.Stage {
	case StageAuth:
		return 2
	case StageLoad:
		return 3
	case StageMerge:
		return 4
	case StageWriteBack:
		return 5
	case StagePostProcess:
		return 6
	}
	return 1
}

// AtStage wraps err in a StageError. Returns nil if err is nil; if err is
// already a StageError it is returned unchanged.
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// ExitCode returns the exit status for err: 0 for nil, the stage code for
// a StageError, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StageError
	if errors.As(err, &se) {
		return se.ExitCode()
	}
	return 1
}

// Helper functions for error checking.

// IsNotFound checks if an error is a document-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// IsPermissionDenied checks if an error is a permission error.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsAuthentication checks if an error is a credentials error.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsValidation checks if an error is a validation or schema error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
