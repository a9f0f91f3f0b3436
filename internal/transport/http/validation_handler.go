package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"aimmkit/internal/dataprocessing"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/middleware"
	"aimmkit/internal/services"
	api "aimmkit/pkg/contracts/api/v1"
	"aimmkit/pkg/contracts/domain"
)

// ValidationHandler checks posted samples and records against the schemas
type ValidationHandler struct {
	service      *services.ValidationService
	maxBatch     int
	requests     *middleware.RequestValidator
	params       *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationHandler creates a validation handler. A request may carry at
// most maxBatch items.
func NewValidationHandler(service *services.ValidationService, maxBatch int, requests *middleware.RequestValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ValidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationHandler{
		service:      service,
		maxBatch:     maxBatch,
		requests:     requests,
		params:       middleware.NewQueryParamValidator(errorHandler),
		logger:       logger.With(slog.String("component", "validation_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the validation routes, mounted under /api/v1/validate
func (h *ValidationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.ContentTypeValidator("application/json"))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/inputs", h.ValidateInputs)
	r.Post("/outputs", h.ValidateOutputs)
	return r
}

// ValidateInputs handles POST /api/v1/validate/inputs?strict=
func (h *ValidationHandler) ValidateInputs(w http.ResponseWriter, r *http.Request) {
	var query api.ValidationQuery
	var ok bool
	if query.Strict, ok = h.params.ValidateBool(w, r, "strict", h.service.InputSchema().Strict); !ok {
		return
	}

	rows, ok := h.decodeRows(w, r)
	if !ok {
		return
	}
	samples := make([]domain.Sample, len(rows))
	for i, row := range rows {
		samples[i] = domain.Sample(row)
	}

	report := h.service.WithStrict(query.Strict).ValidateSamples(r.Context(), samples)
	h.respond(w, r, report)
}

// ValidateOutputs handles POST /api/v1/validate/outputs
func (h *ValidationHandler) ValidateOutputs(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.decodeRows(w, r)
	if !ok {
		return
	}
	records := make([]domain.Record, len(rows))
	for i, row := range rows {
		records[i] = domain.Record(row)
	}

	report := h.service.ValidateRecords(r.Context(), records)
	h.respond(w, r, report)
}

// decodeRows reads a single object or an array of objects
func (h *ValidationHandler) decodeRows(w http.ResponseWriter, r *http.Request) ([]map[string]any, bool) {
	var body json.RawMessage
	if err := h.requests.Decode(w, r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	rows, err := dataprocessing.DecodeRows(body)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return nil, false
	}
	if len(rows) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "body must hold at least one item"))
		return nil, false
	}
	if len(rows) > h.maxBatch {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			fmt.Sprintf("A request may hold at most %d items", h.maxBatch), len(rows)))
		return nil, false
	}
	return rows, true
}

func (h *ValidationHandler) respond(w http.ResponseWriter, r *http.Request, report *services.Report) {
	if !report.OK() {
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, toValidationResponse(report))
}

func toValidationResponse(report *services.Report) api.ValidationResponse {
	resp := api.ValidationResponse{
		Kind:    string(report.Kind),
		Schema:  report.Schema,
		Total:   report.Total,
		Valid:   report.Valid,
		Invalid: report.Invalid,
		Results: make([]api.ValidationResult, len(report.Results)),
	}
	for i, item := range report.Results {
		result := api.ValidationResult{
			Index:      item.Index,
			Valid:      item.Valid,
			Message:    item.Message,
			Assessment: item.Assessment,
		}
		for _, v := range item.Violations {
			result.Violations = append(result.Violations, api.Violation{Field: v.Field, Message: v.Message, Value: v.Value})
		}
		resp.Results[i] = result
	}
	return resp
}
