package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/roster"
	"skymedic/internal/types"
)

// MedicMatcherInterface defines the matching contract for the medics handler.
// Matched by *roster.Matcher.
type MedicMatcherInterface interface {
	FindBestMatch(req roster.MatchRequest) types.MedicAssignment
}

// RosterStoreInterface defines the roster access contract for the medics
// handler. Matched by *roster.Store.
type RosterStoreInterface interface {
	All() []types.Medic
	Available() []types.Medic
	ByID(id string) *types.Medic
	UpdateStatus(id string, status types.MedicStatus) error
}

// MedicsHandler maps HTTP requests to the medic roster and matcher.
type MedicsHandler struct {
	matcher   MedicMatcherInterface
	store     RosterStoreInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewMedicsHandler creates a new MedicsHandler.
func NewMedicsHandler(
	matcher MedicMatcherInterface,
	store RosterStoreInterface,
	val *core.Validator,
	logger *slog.Logger,
) *MedicsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MedicsHandler{
		matcher:   matcher,
		store:     store,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the medic endpoints onto the mux.
func (h *MedicsHandler) RegisterRoutes(r chi.Router) {
	r.Post("/assignment", h.HandleAssign)
	r.Get("/", h.HandleList)
	r.Get("/{medicID}", h.HandleGet)
	r.Patch("/{medicID}/status", h.HandleUpdateStatus)
}

// MedicAssignmentRequest is the body of POST /v1/medics/assignment.
type MedicAssignmentRequest struct {
	ResponseMode    string          `json:"response_mode" validate:"required,response_mode"`
	Category        string          `json:"category,omitempty"`
	SeverityLevel   int             `json:"severity_level,omitempty" validate:"omitempty,severity_level"`
	PatientLocation *types.Location `json:"patient_location,omitempty"`
	ScenarioSeed    int64           `json:"scenario_seed,omitempty"`
}

// HandleAssign handles POST /v1/medics/assignment.
//
// A ground-only response mode is not an error: the assignment comes back with
// no medic and reasoning that explains why, mirroring the decision engine's
// advisory posture.
func (h *MedicsHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req MedicAssignmentRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	assignment := h.matcher.FindBestMatch(roster.MatchRequest{
		Mode:            types.ResponseMode(req.ResponseMode),
		Category:        types.Category(req.Category),
		SeverityLevel:   req.SeverityLevel,
		PatientLocation: req.PatientLocation,
		ScenarioSeed:    req.ScenarioSeed,
	})

	h.logger.Info("medic assignment",
		slog.Bool("matched", assignment.Matched),
		slog.String("assignment_id", assignment.AssignmentID),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: assignment})
}

// HandleList handles GET /v1/medics.
// The optional status=available query filters to dispatchable medics.
func (h *MedicsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("status") == string(types.MedicAvailable) {
		core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.store.Available()})
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.store.All()})
}

// HandleGet handles GET /v1/medics/{medicID}.
func (h *MedicsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "medicID")

	medic := h.store.ByID(id)
	if medic == nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundMedic,
			"no medic with id "+id,
			nil,
		))
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: medic})
}

// MedicStatusRequest is the body of PATCH /v1/medics/{medicID}/status.
type MedicStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available on_mission off_duty en_route"`
}

// HandleUpdateStatus handles PATCH /v1/medics/{medicID}/status. Status
// updates come from the operations console, not from the match path.
func (h *MedicsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "medicID")

	var req MedicStatusRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.store.UpdateStatus(id, types.MedicStatus(req.Status)); err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.Info("medic status updated",
		slog.String("medic_id", id),
		slog.String("status", req.Status),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.store.ByID(id)})
}
