package cli

import (
	"fmt"

	"github.com/safedep/tally/core/apperr"
)

// Exit codes.
const (
	ExitSuccess  = 0 // Success
	ExitGeneral  = 1 // General/unknown error
	ExitConfig   = 2 // Invalid YAML, invalid config values
	ExitDatabase = 3 // Database open fails, corrupt/locked, query failure
	ExitRejected = 4 // Input rejected by the tracker
)

// ExitCoder is an interface for errors that carry a custom exit code and message.
type ExitCoder interface {
	ExitCode() int
	Message() string
}

// cliError is a typed error that carries an exit code.
type cliError struct {
	code    int
	message string
	err     error
}

// NewCLIError creates a new cliError with the given code and message.
func NewCLIError(code int, message string) *cliError {
	return &cliError{
		code:    code,
		message: message,
	}
}

// WrapError creates a new cliError wrapping an underlying error.
func WrapError(code int, message string, err error) *cliError {
	return &cliError{
		code:    code,
		message: message,
		err:     err,
	}
}

// Error implements the error interface.
func (e *cliError) Error() string {
	if e.err != nil && e.message != "" {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.message
}

// ExitCode returns the exit code for this error.
func (e *cliError) ExitCode() int {
	return e.code
}

// Message returns the formatted message for display.
func (e *cliError) Message() string {
	return fmt.Sprintf("Error: %s\n", e.Error())
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *cliError) Unwrap() error {
	return e.err
}

// ErrConfig creates a configuration error.
func ErrConfig(message string, err error) *cliError {
	return WrapError(ExitConfig, message, err)
}

// ErrDatabase creates a database error.
func ErrDatabase(message string, err error) *cliError {
	return WrapError(ExitDatabase, message, err)
}

// ErrRejected creates an error for input the tracker refused. The tracker's
// message is shown as is.
func ErrRejected(err error) *cliError {
	return WrapError(ExitRejected, "", err)
}

// trackerError classifies an error returned by the tracker.
func trackerError(err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsExpected(err) {
		return ErrRejected(err)
	}
	return ErrDatabase("storage failure", err)
}
