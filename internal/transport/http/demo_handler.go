package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"aimmkit/internal/demo"
	apierrors "aimmkit/internal/errors"
	"aimmkit/internal/middleware"
	api "aimmkit/pkg/contracts/api/v1"
	"aimmkit/pkg/contracts/domain"
)

// DemoRunner runs one seeded toy demonstration
type DemoRunner interface {
	Run(ctx context.Context, seed uint64, date time.Time, reporter demo.Reporter) (*demo.Result, error)
}

// DemoHandler runs the toy demonstration on request
type DemoHandler struct {
	runner       DemoRunner
	defaultSeed  uint64
	defaultDate  string
	params       *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDemoHandler creates a demo handler. defaultDate is YYYY-MM-DD or empty
// for the current day.
func NewDemoHandler(runner DemoRunner, defaultSeed uint64, defaultDate string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DemoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoHandler{
		runner:       runner,
		defaultSeed:  defaultSeed,
		defaultDate:  defaultDate,
		params:       middleware.NewQueryParamValidator(errorHandler),
		logger:       logger.With(slog.String("component", "demo_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the demo routes, mounted under /api/v1/demo
func (h *DemoHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/run", h.Run)
	return r
}

// Run handles POST /api/v1/demo/run?seed=&date=
func (h *DemoHandler) Run(w http.ResponseWriter, r *http.Request) {
	seed, ok := h.params.ValidateUint(w, r, "seed", h.defaultSeed)
	if !ok {
		return
	}
	req := api.DemoRunRequest{Seed: &seed, Date: h.defaultDate}
	dateParam, ok := h.params.ValidateDate(w, r, "date")
	if !ok {
		return
	}
	if dateParam != "" {
		req.Date = dateParam
	}

	var date time.Time
	if req.Date != "" {
		date, _ = time.Parse(domain.DateLayout, req.Date)
	}

	start := time.Now()
	result, err := h.runner.Run(r.Context(), *req.Seed, date, nil)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, toDemoRunResponse(result, time.Since(start)))
}

func toDemoRunResponse(result *demo.Result, duration time.Duration) api.DemoRunResponse {
	steps := make([]api.DemoStep, len(result.Steps))
	for i, s := range result.Steps {
		steps[i] = api.DemoStep{Number: s.Number, Name: s.Name, Status: string(s.Status), Message: s.Message}
	}
	return api.DemoRunResponse{
		RunID:      result.RunID,
		Seed:       result.Seed,
		Inputs:     result.Inputs,
		RiskScore:  result.RiskScore,
		RiskLevel:  string(result.RiskLevel),
		Assessment: result.Assessment,
		Steps:      steps,
		DurationMS: duration.Milliseconds(),
		FinishedAt: time.Now().UTC(),
	}
}
