package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/middleware"
	"aimmkit/internal/services"
	api "aimmkit/pkg/contracts/api/v1"
)

// MetricsHandler computes evaluation metrics for posted evaluation sets
type MetricsHandler struct {
	service      *services.EvaluationService
	requests     *middleware.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service *services.EvaluationService, requests *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsHandler{
		service:      service,
		requests:     requests,
		logger:       logger.With(slog.String("component", "metrics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes sets up the metrics routes, mounted under /api/v1/metrics
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator("application/json"))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/evaluate", h.Evaluate)
	return r
}

// Evaluate handles POST /api/v1/metrics/evaluate
func (h *MetricsHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req api.EvaluateRequest
	if err := h.requests.DecodeAndValidate(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if !req.HasInputs() {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body",
			"body must hold y_true with y_pred or y_scores, or event dates"))
		return
	}

	report, err := h.service.Evaluate(r.Context(), req.EvaluationSet)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.EvaluateResponse{
		Report:  report,
		Metrics: services.ReportValues(report),
	})
}
