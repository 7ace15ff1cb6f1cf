package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrNotInitialized      = errors.New("node is not initialized")
	ErrAlreadyInitialized  = errors.New("node is already initialized")
	ErrDaemonNotRunning    = errors.New("daemon is not running")
	ErrStartTimeout        = errors.New("daemon did not become reachable before the timeout")
	ErrOverlayNotConnected = errors.New("mesh overlay is not connected")
	ErrToolNotFound        = errors.New("required tool not found")
	ErrKeyExists           = errors.New("swarm key already exists")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// StepError represents a failure of a single orchestration step. The plan
// aborts at the failing step; already-applied steps are not rolled back.
type StepError struct {
	Step    string // e.g., "repo-init", "configure", "overlay-up"
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s failed: %s: %v", e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("step %s failed: %s", e.Step, e.Message)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError creates a new step error
func NewStepError(step, message string, err error) *StepError {
	return &StepError{
		Step:    step,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents an input validation failure. Validation errors
// are reported before any mutation is performed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed [%s]: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// CommandError represents an external command exiting non-zero
type CommandError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s exited with code %d", e.Binary, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error
func NewCommandError(binary string, args []string, exitCode int, stderr string, err error) *CommandError {
	return &CommandError{
		Binary:   binary,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FailedStep returns the name of the step that failed, or "" if err does not
// carry one.
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
