package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicators/internal/infrastructure"
)

func newHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.DiscardHandler), false)
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleErrorMapsAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", ErrValidation("limit", "must be between 1 and 100"), http.StatusBadRequest, TypeValidation},
		{"not found", ErrNotFound, http.StatusNotFound, TypeNotFound},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"dataset", ErrDatasetUnavailable("exchangerate", fmt.Errorf("no such table")), http.StatusServiceUnavailable, TypeServiceDown},
		{"wrapped", fmt.Errorf("query: %w", ErrNotFound), http.StatusNotFound, TypeNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/exchange-rate", nil)
			rec := httptest.NewRecorder()

			newHandler().HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/exchange-rate", body["instance"])
		})
	}
}

func TestHandleErrorIncludesTraceAndDetails(t *testing.T) {
	ctx := infrastructure.WithTraceID(context.Background(), "trace-123")
	req := httptest.NewRequest(http.MethodGet, "/api/exchange-rate?limit=0", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	newHandler().HandleError(rec, req, ErrValidation("limit", "must be between 1 and 100"))

	body := decodeProblem(t, rec)
	assert.Equal(t, "trace-123", body["trace_id"])
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "limit", details["field"])
}

func TestHandleNilErrorWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestHandlePanic(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.DiscardHandler), true)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "nil map", decodeProblem(t, rec)["panic"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "POST")
}

func TestProblemExtensionsDoNotOverrideFields(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "x", "/").
		WithExtension("status", 999)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":400`)
}
