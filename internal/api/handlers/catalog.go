package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/types"
)

// CatalogServiceInterface defines the service contract for the catalog
// handler. Matched by *catalog.Matcher; defined locally to avoid tight
// coupling per the handler injection pattern.
type CatalogServiceInterface interface {
	Categorize(description string, symptoms []string) *types.CaseMatch
	Cases() []types.CatalogCase
	CasesByCategory(category string) []types.CatalogCase
	CasesBySeverity(level int) []types.CatalogCase
}

// CatalogHandler maps HTTP requests to the medical catalog matcher.
type CatalogHandler struct {
	service CatalogServiceInterface
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc CatalogServiceInterface, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes mounts the catalog endpoints onto the mux.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Post("/match", h.HandleMatch)
	r.Get("/cases", h.HandleListCases)
}

// CatalogMatchRequest is the body of POST /v1/catalog/match.
type CatalogMatchRequest struct {
	Description string   `json:"description"`
	Symptoms    []string `json:"symptoms,omitempty"`
}

// HandleMatch handles POST /v1/catalog/match.
func (h *CatalogHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req CatalogMatchRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if req.Description == "" && len(req.Symptoms) == 0 {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"at least one of description or symptoms is required",
			nil,
		))
		return
	}

	match := h.service.Categorize(req.Description, req.Symptoms)
	if match == nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundCaseMatch,
			"no catalog case matched the description",
			nil,
		))
		return
	}

	h.logger.Info("catalog match",
		slog.String("case", match.Case.CaseName),
		slog.String("method", string(match.Method)),
		slog.Float64("confidence", match.Confidence),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: match})
}

// HandleListCases handles GET /v1/catalog/cases.
// Optional query parameters: category (string), severity (0-3). When both are
// given, category wins; combining filters has no current caller.
func (h *CatalogHandler) HandleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if category := q.Get("category"); category != "" {
		core.JSON(w, r, http.StatusOK, core.APIResponse{
			Data: h.service.CasesByCategory(category),
		})
		return
	}

	if severityStr := q.Get("severity"); severityStr != "" {
		level, err := strconv.Atoi(severityStr)
		if err != nil {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationInvalidSeverity,
				"severity must be an integer",
				nil,
			))
			return
		}
		core.JSON(w, r, http.StatusOK, core.APIResponse{
			Data: h.service.CasesBySeverity(level),
		})
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.service.Cases()})
}
