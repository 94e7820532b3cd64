package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/triage"
	"skymedic/internal/types"
)

// TriageHandler maps HTTP requests to the triage scorer. The scorer is a
// pure function, so no service interface is needed.
type TriageHandler struct {
	validator *core.Validator
	logger    *slog.Logger
}

// NewTriageHandler creates a new TriageHandler.
func NewTriageHandler(val *core.Validator, logger *slog.Logger) *TriageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TriageHandler{
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the triage endpoints onto the mux.
func (h *TriageHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleScore)
	r.Get("/questions", h.HandleQuestions)
}

// HandleScore handles POST /v1/triage.
func (h *TriageHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var in types.TriageInput
	if err := core.DecodeJSON(w, r, &in); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(in); err != nil {
		core.Error(w, r, err)
		return
	}

	// An empty symptom picture is not an error: the scorer answers with
	// severity 0 and the follow-up question set.
	result := triage.Score(in)

	h.logger.Info("triage scored",
		slog.String("category", string(result.Category)),
		slog.Int("severity_level", result.SeverityLevel),
		slog.Bool("escalate", result.Escalate),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: result})
}

// HandleQuestions handles GET /v1/triage/questions. It returns the standard
// follow-up question set callers present when triage confidence is low.
func (h *TriageHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{
		Data: map[string][]string{"questions": triage.FollowupQuestions()},
	})
}
