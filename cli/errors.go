package cli

import (
	"errors"
	"fmt"

	"job-insights/services"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Pipeline or data failure (missing file, missing columns, store errors)
	ExitCommandError = 2 // Command error (bad flags, unknown chart, store cannot be opened)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// pipelineError tags data failures from the services layer with a message
// naming the stage. Errors that already carry an exit code pass through.
func pipelineError(stage string, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var (
		notFound *services.NotFoundError
		empty    *services.EmptyDatasetError
		missing  *services.MissingColumnsError
		noSalary *services.AllSalariesMissingError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &empty):
		return WrapExitError(ExitFailure, stage+": input", err)
	case errors.As(err, &missing), errors.As(err, &noSalary):
		return WrapExitError(ExitFailure, stage+": data", err)
	}
	return WrapExitError(ExitFailure, stage, err)
}
