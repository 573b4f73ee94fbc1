package sources

import (
	"fmt"
)

// NetworkError reports a transport failure or an unsuccessful HTTP status
// while downloading a payload.
type NetworkError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// FormatError reports a payload whose structure does not match what the
// source is expected to publish.
type FormatError struct {
	Source string
	Reason string
	Cause  error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("unexpected %s format: %s", e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// NewFormatError creates a FormatError with a formatted reason.
func NewFormatError(source, format string, args ...any) *FormatError {
	return &FormatError{Source: source, Reason: fmt.Sprintf(format, args...)}
}
