// Package handlers contains the HTTP handler implementations for the
// SkyMedic API. Each handler declares the service contract it needs locally,
// takes its dependencies through the constructor, and mounts its routes via
// RegisterRoutes so the entry point stays in control of the URL layout.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/dispatch"
	"skymedic/internal/types"
)

// DispatchHandler maps HTTP requests to the dispatch decision engine.
// The engine is a pure function, so the handler calls it directly; the
// thresholds are the only injected dependency.
type DispatchHandler struct {
	thresholds dispatch.Thresholds
	logger     *slog.Logger
}

// NewDispatchHandler creates a new DispatchHandler with the given decision
// thresholds.
func NewDispatchHandler(thresholds dispatch.Thresholds, logger *slog.Logger) *DispatchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchHandler{
		thresholds: thresholds,
		logger:     logger,
	}
}

// RegisterRoutes mounts the dispatch endpoints onto the mux.
func (h *DispatchHandler) RegisterRoutes(r chi.Router) {
	r.Post("/decision", h.HandleDecide)
}

// HandleDecide handles POST /v1/dispatch/decision.
//
// The decision engine is total: out-of-range inputs are never rejected, they
// produce advisory warnings in the response meta instead. This keeps the
// decision aid usable on degraded sensor input.
func (h *DispatchHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	var in types.DispatchInput
	if err := core.DecodeJSON(w, r, &in); err != nil {
		core.Error(w, r, err)
		return
	}

	result := dispatch.DecideWith(in, h.thresholds)

	var meta *types.ResponseMeta
	if warnings := dispatch.Warnings(in); len(warnings) > 0 {
		meta = &types.ResponseMeta{Warnings: warnings}
	}

	h.logger.Info("dispatch decision",
		slog.String("response_mode", string(result.ResponseMode)),
		slog.String("rule", string(result.RuleTriggered)),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result, Meta: meta})
}
