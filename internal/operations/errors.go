package operations

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of job error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeStart        ErrorType = "start"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// OperationError describes why a job did not succeed
type OperationError struct {
	Type    ErrorType `json:"type"`
	Job     string    `json:"job,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Job != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Job, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(job string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeValidation,
		Job:     job,
		Message: "invalid job spec",
		Cause:   cause,
	}
}

// NewStartError reports a process that could not be launched
func NewStartError(job string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeStart,
		Job:     job,
		Message: "job could not be started",
		Cause:   cause,
	}
}

// NewExecutionError reports a process that exited non-zero
func NewExecutionError(job string, exitCode int, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Job:     job,
		Message: fmt.Sprintf("job exited with code %d", exitCode),
		Cause:   cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(job string, timeout time.Duration) *OperationError {
	return &OperationError{
		Type:    ErrorTypeTimeout,
		Job:     job,
		Message: fmt.Sprintf("job exceeded timeout of %s", timeout),
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(job string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeCancellation,
		Job:     job,
		Message: "batch was cancelled",
		Cause:   cause,
	}
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}
