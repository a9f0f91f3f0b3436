package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "bad body", "unexpected EOF")
	assert.Equal(t, "bad body", err.Error())

	wrapped := fmt.Errorf("decode: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidRequest), "matches by error code")
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, "unexpected EOF", apiErr.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("seed", "seed must be a non-negative integer")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, []ValidationError{{Field: "seed", Message: "seed must be a non-negative integer"}}, err.Details)

	multi := NewValidationErrors([]ValidationError{{Field: "a"}, {Field: "b"}})
	assert.Len(t, multi.Details, 2)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.ErrorCode)
}

func TestAppError(t *testing.T) {
	err := ParseError("load samples", "samples.json", io.ErrUnexpectedEOF)

	assert.Equal(t, "[PARSING] load samples samples.json: unexpected EOF", err.Error())
	assert.Equal(t, "load samples samples.json: unexpected EOF", err.Detail())
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	storage := StorageError("write report", "out.csv", io.ErrShortWrite)
	assert.Equal(t, "write report out.csv", storage.Detail(), "storage causes stay internal")

	assert.Equal(t, "[CONFIG] load input schema: unexpected EOF", ConfigError("load input schema", io.ErrUnexpectedEOF).Error())
}

func TestProblemDetailsMarshal(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeSchemaViolation, "Schema Violation", "bad", "/api/v1/validate/inputs").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeSchemaViolation, decoded["type"])
	assert.Equal(t, float64(422), decoded["status"], "standard members win over extensions")
	assert.Equal(t, "abc", decoded["trace_id"])
	assert.Equal(t, "/api/v1/validate/inputs", decoded["instance"])
}
