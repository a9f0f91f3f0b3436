package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aimmkit/internal/evaluation"
	"aimmkit/internal/infrastructure"
	"aimmkit/internal/schema"
	"aimmkit/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	sample := testutil.MinimalSample()
	delete(sample, "close_price")
	schemaErr := schema.ValidateInput(sample)
	require.Error(t, schemaErr)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"schema violation", fmt.Errorf("sample 0: %w", schemaErr), http.StatusUnprocessableEntity, TypeSchemaViolation},
		{"evaluation input", fmt.Errorf("classification metrics: %w", evaluation.ErrLengthMismatch), http.StatusUnprocessableEntity, TypeInvalidEvaluation},
		{"unknown feature type", fmt.Errorf("%w: 'decimal'", schema.ErrUnknownFeatureType), http.StatusBadRequest, TypeValidation},
		{"api error", ErrValidation("seed", "bad"), http.StatusBadRequest, TypeValidation},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"parsing app error", ParseError("load samples", "a.json", errors.New("eof")), http.StatusBadRequest, TypeValidation},
		{"storage app error", StorageError("write report", "out.csv", errors.New("denied")), http.StatusInternalServerError, TypeInternal},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/validate/inputs", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "trace-1", body["trace_id"])
			assert.Equal(t, "/api/v1/validate/inputs", body["instance"])
			assert.Equal(t, 1, handler.CountMessages("request failed"))
		})
	}
}

func TestErrorHandler_SchemaViolationDetails(t *testing.T) {
	h := NewErrorHandler(nil, false)

	_, err := schema.ValidateOutput(map[string]any{
		"risk_score":                1.5,
		"risk_level":                "extreme",
		"evaluation_date":           "2025-12-28",
		"contributing_signal_types": []any{"social_sentiment"},
	})
	require.Error(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate/outputs", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, err)

	body := decodeProblem(t, rec)
	violations, ok := body["violations"].([]any)
	require.True(t, ok)
	require.Len(t, violations, 2)
	first := violations[0].(map[string]any)
	assert.Equal(t, "risk_score", first["field"])
	assert.NotContains(t, body, "trace_id")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	h.HandlePanic(rec, req, "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	assert.True(t, strings.Contains(body["stack"].(string), "goroutine"))
	assert.Equal(t, 1, handler.CountMessages("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", body["detail"])
}
