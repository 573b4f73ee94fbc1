package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"

	"indicators/internal/infrastructure"
)

// problemTypes maps API error codes to problem type URIs
var problemTypes = map[string]string{
	CodeValidationFailed:   TypeValidation,
	CodeNotFound:           TypeNotFound,
	CodeRateLimitExceeded:  TypeRateLimit,
	CodeDatasetUnavailable: TypeServiceDown,
}

// ErrorHandler writes every query service failure as problem details
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates an error handler. includeStack adds the panic value
// to 500 responses.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError logs err and responds with its problem details
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request_failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	h.respond(w, r, problem)
}

// ErrorToProblem maps err to problem details. Context errors become 504,
// APIErrors keep their status, anything else is a 500.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return problemFor(r, http.StatusGatewayTimeout, TypeTimeout,
			"The request took too long to process and was cancelled")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return problemFor(r, http.StatusInternalServerError, TypeInternal,
			"An unexpected error occurred while processing your request")
	}

	problemType, ok := problemTypes[apiErr.ErrorCode]
	if !ok {
		problemType = TypeInternal
	}
	problem := problemFor(r, apiErr.StatusCode, problemType, apiErr.Message).
		WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic logs a recovered panic and responds with a 500 problem
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	h.logger.ErrorContext(r.Context(), "panic_recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())))

	problem := problemFor(r, http.StatusInternalServerError, TypeInternal, "An unexpected error occurred")
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
	}
	h.respond(w, r, problem)
}

// NotFound is the router's 404 handler
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, problemFor(r, http.StatusNotFound, TypeNotFound, "The requested resource was not found"))
}

// MethodNotAllowed is the router's 405 handler
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, problemFor(r, http.StatusMethodNotAllowed, TypeMethod,
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method)))
}

func (h *ErrorHandler) respond(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	_ = render.Render(w, r, problem)
}

func problemFor(r *http.Request, status int, problemType, detail string) *ProblemDetails {
	return NewProblemDetails(status, problemType, http.StatusText(status), detail, r.URL.Path)
}
