// Package zones selects drone landing zones near a patient location.
package zones

import (
	"log/slog"
	"math"
	"sort"

	"skymedic/internal/geo"
	"skymedic/internal/types"
)

// Default patient location: Al Humaid St, Al Ghadir, Riyadh.
const (
	DefaultPatientLat = 24.7745
	DefaultPatientLon = 46.6575
)

// Selector ranks a fixed set of landing zones by great-circle distance.
// Zones with invalid coordinates are dropped at construction time.
type Selector struct {
	zones     []types.LandingZone
	aerialKmh float64
	logger    *slog.Logger
}

// NewSelector builds a selector over the given zones, skipping any with
// out-of-range or placeholder (0,0) coordinates. aerialSpeedKmh sets the
// cruise speed behind the flight-time estimates; zero falls back to the
// fleet default.
func NewSelector(zones []types.LandingZone, aerialSpeedKmh float64, logger *slog.Logger) *Selector {
	if aerialSpeedKmh <= 0 {
		aerialSpeedKmh = geo.AerialSpeedKmh
	}
	valid := make([]types.LandingZone, 0, len(zones))
	for _, z := range zones {
		loc := types.Location{Lat: z.Latitude, Lon: z.Longitude}
		if !loc.Valid() {
			logger.Warn("dropping landing zone with invalid coordinates",
				slog.String("name", z.Name),
				slog.Float64("latitude", z.Latitude),
				slog.Float64("longitude", z.Longitude))
			continue
		}
		valid = append(valid, z)
	}
	return &Selector{zones: valid, aerialKmh: aerialSpeedKmh, logger: logger}
}

// Zones returns the valid zones the selector ranks.
func (s *Selector) Zones() []types.LandingZone {
	return s.zones
}

// annotate computes the trip metrics from the patient to a zone.
func (s *Selector) annotate(z types.LandingZone, lat, lon float64) types.ZoneSelection {
	distance := geo.HaversineKm(lat, lon, z.Latitude, z.Longitude)
	bearing := geo.BearingDegrees(lat, lon, z.Latitude, z.Longitude)
	return types.ZoneSelection{
		LandingZone:     z,
		DistanceKm:      round(distance, 2),
		Bearing:         round(bearing, 1),
		BearingCardinal: geo.BearingCardinal(bearing),
		FlightTimeMin:   round(geo.TravelMinutes(distance, s.aerialKmh), 1),
	}
}

// Nearest returns the closest zone to the patient, or nil when no valid
// zone exists. Ties on distance resolve to the earliest zone in the data.
func (s *Selector) Nearest(lat, lon float64) *types.ZoneSelection {
	if len(s.zones) == 0 {
		s.logger.Warn("no valid landing zones available")
		return nil
	}

	if !(types.Location{Lat: lat, Lon: lon}).Valid() {
		s.logger.Warn("patient coordinates out of range",
			slog.Float64("latitude", lat), slog.Float64("longitude", lon))
	}

	best := -1
	minDistance := math.Inf(1)
	for i, z := range s.zones {
		d := geo.HaversineKm(lat, lon, z.Latitude, z.Longitude)
		if d < minDistance {
			minDistance = d
			best = i
		}
	}

	selection := s.annotate(s.zones[best], lat, lon)
	s.logger.Info("nearest landing zone selected",
		slog.String("name", selection.Name),
		slog.Float64("distance_km", selection.DistanceKm))
	return &selection
}

// AllSorted returns every valid zone annotated with trip metrics, ordered by
// ascending distance from the patient.
func (s *Selector) AllSorted(lat, lon float64) []types.ZoneSelection {
	out := make([]types.ZoneSelection, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, s.annotate(z, lat, lon))
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].DistanceKm < out[b].DistanceKm
	})
	return out
}

// WithinRadius returns the zones no farther than radiusKm from the patient,
// ordered by ascending distance.
func (s *Selector) WithinRadius(lat, lon, radiusKm float64) []types.ZoneSelection {
	all := s.AllSorted(lat, lon)
	out := make([]types.ZoneSelection, 0, len(all))
	for _, z := range all {
		if z.DistanceKm <= radiusKm {
			out = append(out, z)
		}
	}
	return out
}

// Stats summarizes zone coverage from the patient location.
type Stats struct {
	Count       int     `json:"count"`
	NearestZone string  `json:"nearest_zone,omitempty"`
	NearestKm   float64 `json:"nearest_distance_km"`
	FarthestKm  float64 `json:"farthest_distance_km"`
	AverageKm   float64 `json:"average_distance_km"`
}

// Coverage computes zone statistics relative to the patient location.
func (s *Selector) Coverage(lat, lon float64) Stats {
	all := s.AllSorted(lat, lon)
	if len(all) == 0 {
		return Stats{}
	}

	var sum float64
	for _, z := range all {
		sum += z.DistanceKm
	}
	return Stats{
		Count:       len(all),
		NearestZone: all[0].Name,
		NearestKm:   all[0].DistanceKm,
		FarthestKm:  all[len(all)-1].DistanceKm,
		AverageKm:   round(sum/float64(len(all)), 2),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
