package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/core"
	"skymedic/internal/types"
	"skymedic/internal/zones"
)

// ZoneServiceInterface defines the service contract for the zones handler.
// Matched by *zones.Selector.
type ZoneServiceInterface interface {
	Nearest(lat, lon float64) *types.ZoneSelection
	AllSorted(lat, lon float64) []types.ZoneSelection
	WithinRadius(lat, lon, radiusKm float64) []types.ZoneSelection
	Coverage(lat, lon float64) zones.Stats
}

// ZonesHandler maps HTTP requests to the landing zone selector.
type ZonesHandler struct {
	service ZoneServiceInterface
	logger  *slog.Logger
}

// NewZonesHandler creates a new ZonesHandler.
func NewZonesHandler(svc ZoneServiceInterface, logger *slog.Logger) *ZonesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZonesHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes mounts the zone endpoints onto the mux.
func (h *ZonesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Get("/nearest", h.HandleNearest)
	r.Get("/coverage", h.HandleCoverage)
}

// patientCoords parses the optional lat/lon query parameters, defaulting to
// the incident district center when absent.
func patientCoords(r *http.Request) (float64, float64, error) {
	lat := zones.DefaultPatientLat
	lon := zones.DefaultPatientLon

	q := r.URL.Query()
	if latStr := q.Get("lat"); latStr != "" {
		parsed, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return 0, 0, types.NewAppError(
				types.ErrCodeValidationInvalidLat,
				"lat must be a valid number",
				nil,
			)
		}
		lat = parsed
	}
	if lonStr := q.Get("lon"); lonStr != "" {
		parsed, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return 0, 0, types.NewAppError(
				types.ErrCodeValidationInvalidLon,
				"lon must be a valid number",
				nil,
			)
		}
		lon = parsed
	}
	return lat, lon, nil
}

// HandleList handles GET /v1/zones. Zones come back sorted by distance from
// the patient location; the optional radius_km query restricts the list.
func (h *ZonesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := patientCoords(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if radiusStr := r.URL.Query().Get("radius_km"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius < 0 {
			core.Error(w, r, types.NewAppError(
				types.ErrCodeValidationFailed,
				"radius_km must be a non-negative number",
				nil,
			))
			return
		}
		core.JSON(w, r, http.StatusOK, core.APIResponse{
			Data: h.service.WithinRadius(lat, lon, radius),
		})
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.service.AllSorted(lat, lon)})
}

// HandleNearest handles GET /v1/zones/nearest?lat=&lon=.
func (h *ZonesHandler) HandleNearest(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := patientCoords(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	nearest := h.service.Nearest(lat, lon)
	if nearest == nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeNotFoundZone,
			"no usable landing zone",
			nil,
		))
		return
	}

	h.logger.Info("nearest zone selected",
		slog.String("zone", nearest.Name),
		slog.Float64("distance_km", nearest.DistanceKm),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: nearest})
}

// HandleCoverage handles GET /v1/zones/coverage. Returns aggregate distance
// statistics for the zone network relative to the patient location.
func (h *ZonesHandler) HandleCoverage(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := patientCoords(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.service.Coverage(lat, lon)})
}
