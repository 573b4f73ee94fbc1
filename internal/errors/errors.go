// Package errors holds the HTTP error model of the query service: APIError
// for handler failures and RFC 7807 problem details on the wire.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names the parameter that failed validation
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
)

var (
	ErrNotFound          = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimitExceeded, "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
)

// ErrValidation creates a validation error for one query parameter
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// ErrDatasetUnavailable reports a dataset that cannot be read yet, usually
// because its job has never completed.
func ErrDatasetUnavailable(dataset string, err error) *APIError {
	return NewWithDetails(http.StatusServiceUnavailable, CodeDatasetUnavailable,
		fmt.Sprintf("dataset %s is unavailable", dataset), err.Error())
}
