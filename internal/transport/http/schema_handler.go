package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/schema"
	"aimmkit/pkg/contracts"
	api "aimmkit/pkg/contracts/api/v1"
	"aimmkit/pkg/contracts/domain"
)

// SchemaHandler describes the input and output schemas
type SchemaHandler struct {
	inputs       *schema.InputSchema
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSchemaHandler creates a schema handler
func NewSchemaHandler(inputs *schema.InputSchema, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SchemaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemaHandler{
		inputs:       inputs,
		logger:       logger.With(slog.String("component", "schema_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the schema routes, mounted under /api/v1/schema
func (h *SchemaHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/{kind}", h.GetSchema)
	return r
}

// GetSchema handles GET /api/v1/schema/{kind}
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	switch kind := chi.URLParam(r, "kind"); kind {
	case "inputs":
		render.JSON(w, r, h.inputSchema())
	case "outputs":
		render.JSON(w, r, outputSchema())
	default:
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("schema "+kind))
	}
}

func (h *SchemaHandler) inputSchema() api.InputSchemaResponse {
	return api.InputSchemaResponse{
		Name:     h.inputs.Name,
		Version:  contracts.SchemaVersion,
		Strict:   h.inputs.Strict,
		Features: h.inputs.Features,
		Groups:   h.inputs.Groups(),
	}
}

func outputSchema() api.OutputSchemaResponse {
	fields := make([]api.OutputField, len(schema.OutputFields))
	for i, f := range schema.OutputFields {
		fields[i] = api.OutputField{Name: f.Name, Type: f.Type, Rule: f.Rule}
	}
	levels := make([]string, len(domain.RiskLevels))
	for i, l := range domain.RiskLevels {
		levels[i] = string(l)
	}
	return api.OutputSchemaResponse{
		Name:              schema.OutputSchemaName,
		Version:           contracts.SchemaVersion,
		Fields:            fields,
		RiskLevels:        levels,
		CommonSignalTypes: domain.CommonSignalTypes,
	}
}
