package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/shared/testutil"
	api "aimmkit/pkg/contracts/api/v1"
	"aimmkit/pkg/contracts/domain"
)

func TestMetricsHandler_Evaluate(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodPost, "/api/v1/metrics/evaluate", testutil.DemoEvaluationSet())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[api.EvaluateResponse](t, rec)
	require.NotNil(t, resp.Report)
	require.NotNil(t, resp.Report.Classification)
	assert.Equal(t, 10, resp.Report.Samples)
	assert.Equal(t, 4, resp.Report.Classification.Confusion.TruePositives)
	assert.InDelta(t, 4.0/6.0, resp.Metrics["precision"], 1e-9)
	assert.InDelta(t, 0.8, resp.Metrics["recall"], 1e-9)
	assert.InDelta(t, 1.0, resp.Metrics["mean_delay_days"], 1e-9)
	assert.InDelta(t, 1.0, resp.Metrics["detection_rate"], 1e-9)
	assert.Contains(t, resp.Metrics, "roc_auc")
}

func TestMetricsHandler_DelayOnly(t *testing.T) {
	set := domain.EvaluationSet{
		TrueEventDates: []string{"2025-12-24", "2025-12-25"},
		DetectedDates:  []string{"2025-12-25", "2025-12-27"},
	}
	rec := doRequest(t, newTestRouter(t), http.MethodPost, "/api/v1/metrics/evaluate", set)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[api.EvaluateResponse](t, rec)
	assert.Nil(t, resp.Report.Classification)
	assert.Nil(t, resp.Report.ROCAUC)
	assert.InDelta(t, 0.5, resp.Metrics["mean_delay_days"], 1e-9)
	assert.NotContains(t, resp.Metrics, "precision")
}

func TestMetricsHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantType   string
	}{
		{
			name:       "nothing to compute",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "label out of range",
			body:       domain.EvaluationSet{YTrue: []int{0, 2}, YPred: []int{0, 1}},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "bad date",
			body:       domain.EvaluationSet{TrueEventDates: []string{"12/28/2025"}},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "length mismatch",
			body:       domain.EvaluationSet{YTrue: []int{0, 1, 1}, YPred: []int{0, 1}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeInvalidEvaluation,
		},
		{
			name:       "wrong field type",
			body:       `{"y_true": [1], "y_pred": "x"}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, newTestRouter(t), http.MethodPost, "/api/v1/metrics/evaluate", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			problem := decodeBody[map[string]any](t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
		})
	}
}
