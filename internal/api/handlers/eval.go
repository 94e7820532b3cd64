package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/eval"
	"skymedic/internal/refdata"
	"skymedic/internal/types"
)

// EvalRunnerInterface defines the replay contract for the eval handler.
// Matched by *eval.Runner.
type EvalRunnerInterface interface {
	RunScenarios(scenarios []types.Scenario) eval.Report
	RunCases(cases []types.DecisionCase) eval.Report
}

// EvalHandler replays the loaded reference datasets through the dispatch
// engine on demand.
type EvalHandler struct {
	runner    EvalRunnerInterface
	store     *refdata.Store
	validator *core.Validator
	logger    *slog.Logger
}

// NewEvalHandler creates a new EvalHandler over the loaded reference data.
func NewEvalHandler(
	runner EvalRunnerInterface,
	store *refdata.Store,
	val *core.Validator,
	logger *slog.Logger,
) *EvalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvalHandler{
		runner:    runner,
		store:     store,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the eval endpoints onto the mux.
func (h *EvalHandler) RegisterRoutes(r chi.Router) {
	r.Post("/run", h.HandleRun)
}

// EvalRunRequest is the body of POST /v1/eval/run. An empty body runs both
// datasets.
type EvalRunRequest struct {
	Dataset string `json:"dataset,omitempty" validate:"omitempty,oneof=scenarios cases all"`
}

// EvalRunResponse aggregates the replay reports.
type EvalRunResponse struct {
	Reports []eval.Report `json:"reports"`
}

// HandleRun handles POST /v1/eval/run.
func (h *EvalHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	req := EvalRunRequest{Dataset: "all"}

	if r.ContentLength != 0 {
		if err := core.DecodeJSON(w, r, &req); err != nil {
			core.Error(w, r, err)
			return
		}
		if req.Dataset == "" {
			req.Dataset = "all"
		}
		if err := h.validator.ValidateStruct(req); err != nil {
			core.Error(w, r, err)
			return
		}
	}

	var resp EvalRunResponse
	if req.Dataset == "scenarios" || req.Dataset == "all" {
		resp.Reports = append(resp.Reports, h.runner.RunScenarios(h.store.Scenarios))
	}
	if req.Dataset == "cases" || req.Dataset == "all" {
		resp.Reports = append(resp.Reports, h.runner.RunCases(h.store.Cases))
	}

	h.logger.Info("eval run completed",
		slog.String("dataset", req.Dataset),
		slog.Int("reports", len(resp.Reports)),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}
