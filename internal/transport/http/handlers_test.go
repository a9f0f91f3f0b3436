package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/middleware"
	"aimmkit/internal/schema"
	"aimmkit/internal/services"
	"aimmkit/internal/shared/testutil"
)

const testMaxBatch = 5

// newTestRouter mounts every handler the way the server does
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	requests := middleware.NewRequestValidator(logger, 1<<20)
	inputs := schema.DefaultInputSchema()

	validationService, err := services.NewValidationService(inputs, 2, nil, logger)
	require.NoError(t, err)

	health := NewHealthHandler(services.NewHealthService(inputs, nil, logger), logger)

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.Mount("/api/health", health.Routes())
	r.Get("/api/version", health.Version)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/schema", NewSchemaHandler(inputs, logger, errorHandler).Routes())
		r.Mount("/validate", NewValidationHandler(validationService, testMaxBatch, requests, logger, errorHandler).Routes())
		r.Mount("/metrics", NewMetricsHandler(services.NewEvaluationService(nil, logger), requests, logger, errorHandler).Routes())
		r.Mount("/demo", NewDemoHandler(services.NewDemoService(nil, logger), 42, "2025-12-28", logger, errorHandler).Routes())
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	if buf.Len() > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func newRawRequest(method, target, contentType, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
