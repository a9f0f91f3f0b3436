package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"aimmkit/internal/services"
	"aimmkit/pkg/contracts"
)

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		status := decodeBody[services.HealthStatus](t, rec)
		assert.Equal(t, "ok", status.Status)
	})

	t.Run("ready", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/health/ready", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		status := decodeBody[services.HealthStatus](t, rec)
		assert.Equal(t, "ready", status.Status)
		assert.Contains(t, status.Services, "input_schema")
		assert.Contains(t, status.Services, "demo_stream")
	})

	t.Run("detailed", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/health/detailed", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Len(t, body, 4)
	})

	t.Run("version", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/version", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, contracts.SchemaVersion, body["schema_version"])
		assert.Equal(t, contracts.APIVersion, body["api_version"])
	})
}

func TestHealthHandler_NotReady(t *testing.T) {
	h := NewHealthHandler(services.NewHealthService(nil, nil, nil), nil)

	rec := doRequest(t, http.HandlerFunc(h.ReadinessCheck), http.MethodGet, "/api/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := decodeBody[services.HealthStatus](t, rec)
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["input_schema"].Status)
}
