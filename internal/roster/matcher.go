package roster

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skymedic/internal/geo"
	"skymedic/internal/types"
)

// Composite score weights.
const (
	distanceWeight  = 0.40
	specialtyWeight = 0.30
	workloadWeight  = 0.15
	ratingWeight    = 0.10
	certWeight      = 0.05

	// maxRangeKm normalizes the distance factor; anything at or beyond it
	// scores zero.
	maxRangeKm = 20.0
)

// specialtyCategories maps a medic specialty to the triage categories it
// covers at full score.
var specialtyCategories = map[types.Specialty][]types.Category{
	types.SpecialtyCardiac:     {types.CategoryCardiac},
	types.SpecialtyTrauma:      {types.CategoryTraumaBleeding},
	types.SpecialtyRespiratory: {types.CategoryRespiratory},
	types.SpecialtyNeuro:       {types.CategoryNeuro},
	types.SpecialtyPediatric:   {},
	types.SpecialtyGeneral: {
		types.CategoryInfectionFever, types.CategoryGIDehydration,
		types.CategoryAllergic, types.CategoryOtherUnclear,
		types.CategoryMentalHealth,
	},
}

var certScores = map[types.CertificationLevel]float64{
	types.CertParamedic:    0.7,
	types.CertEMTAdvanced:  0.85,
	types.CertCriticalCare: 1.0,
}

// specialtyScore rates how well a specialty covers a category: 1.0 exact,
// 0.7 generalist, 0.4 cross-specialty.
func specialtyScore(specialty types.Specialty, category types.Category) float64 {
	for _, c := range specialtyCategories[specialty] {
		if c == category {
			return 1.0
		}
	}
	if specialty == types.SpecialtyGeneral {
		return 0.7
	}
	return 0.4
}

// MatchRequest carries the triage and dispatch context into medic matching.
type MatchRequest struct {
	Mode          types.ResponseMode
	Category      types.Category
	SeverityLevel int

	// PatientLocation overrides the seed-derived location when set.
	PatientLocation *types.Location

	// ScenarioSeed derives a deterministic patient location when no
	// explicit one is given.
	ScenarioSeed int64
}

// Matcher ranks available medics against a match request.
// FleetSpeeds carries the cruise speeds behind ETA estimates. Zero values
// fall back to the fleet defaults.
type FleetSpeeds struct {
	AerialKmh float64
	GroundKmh float64
}

type Matcher struct {
	store  *Store
	speeds FleetSpeeds
	logger *slog.Logger
}

// NewMatcher builds a matcher over the given roster store.
func NewMatcher(store *Store, speeds FleetSpeeds, logger *slog.Logger) *Matcher {
	if speeds.AerialKmh <= 0 {
		speeds.AerialKmh = geo.AerialSpeedKmh
	}
	if speeds.GroundKmh <= 0 {
		speeds.GroundKmh = geo.GroundSpeedKmh
	}
	return &Matcher{store: store, speeds: speeds, logger: logger}
}

// eta estimates arrival minutes for a distance at the mode's cruise speed.
func (m *Matcher) eta(distanceKm float64, aerial bool) float64 {
	speed := m.speeds.GroundKmh
	if aerial {
		speed = m.speeds.AerialKmh
	}
	return math.Round(geo.TravelMinutes(distanceKm, speed)*10) / 10
}

type candidate struct {
	medic      types.Medic
	composite  float64
	distanceKm float64
	etaMinutes float64
	breakdown  types.MedicScoreBreakdown
}

// score computes the weighted composite for one medic. Distance uses the
// planar degree-delta approximation, not the haversine the zone selector
// uses; the two are calibrated differently and must stay separate.
func (m *Matcher) score(medic types.Medic, req MatchRequest, patient types.Location) candidate {
	distance := round2(geo.PlanarKm(medic.Location.Lat, medic.Location.Lon, patient.Lat, patient.Lon))

	distanceScore := 1 - distance/maxRangeKm
	if distanceScore < 0 {
		distanceScore = 0
	}
	specScore := specialtyScore(medic.Specialty, req.Category)
	workloadScore := 1 - float64(medic.CurrentLoad)/100
	ratingScore := medic.Rating / 5.0
	certScore := certScores[medic.CertificationLevel]

	composite := distanceScore*distanceWeight +
		specScore*specialtyWeight +
		workloadScore*workloadWeight +
		ratingScore*ratingWeight +
		certScore*certWeight

	return candidate{
		medic:      medic,
		composite:  round3(composite),
		distanceKm: distance,
		etaMinutes: m.eta(distance, req.Mode.RequiresAerial()),
		breakdown: types.MedicScoreBreakdown{
			DistanceScore:  round2(distanceScore),
			SpecialtyScore: round2(specScore),
			WorkloadScore:  round2(workloadScore),
			RatingScore:    round2(ratingScore),
			CertScore:      round2(certScore),
		},
	}
}

// FindBestMatch selects the best available medic for the request. The result
// always carries reasoning; AssignedMedic is nil when no aerial responder is
// needed or none is available. Roster state is never mutated.
func (m *Matcher) FindBestMatch(req MatchRequest) types.MedicAssignment {
	start := time.Now()

	if !req.Mode.RequiresAerial() {
		return types.MedicAssignment{
			Reasoning:       []string{"Ground ambulance only, no aerial medic needed"},
			MatchDurationMS: time.Since(start).Milliseconds(),
		}
	}

	available := m.store.Available()
	if len(available) == 0 {
		m.logger.Warn("no medics available for assignment",
			slog.String("category", string(req.Category)))
		return types.MedicAssignment{
			Reasoning:       []string{"No medics currently available"},
			MatchDurationMS: time.Since(start).Milliseconds(),
		}
	}

	patient := PatientLocation(req.ScenarioSeed)
	if req.PatientLocation != nil {
		patient = *req.PatientLocation
	}

	candidates := make([]candidate, 0, len(available))
	for _, medic := range available {
		candidates = append(candidates, m.score(medic, req, patient))
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].composite > candidates[b].composite
	})

	best := candidates[0]

	var alternatives []types.MedicAlternative
	for _, c := range candidates[1:] {
		if len(alternatives) == 3 {
			break
		}
		alternatives = append(alternatives, types.MedicAlternative{
			ID:         c.medic.ID,
			Name:       c.medic.Name,
			Specialty:  c.medic.Specialty,
			Status:     c.medic.Status,
			Location:   c.medic.Location,
			Score:      c.composite,
			ETAMinutes: c.etaMinutes,
		})
	}

	// The assignment renders the winner as en route without touching the
	// stored status; confirmation is a separate step.
	roster := make([]types.RosterEntry, 0, len(m.store.All()))
	for _, medic := range m.store.All() {
		status := medic.Status
		if medic.ID == best.medic.ID {
			status = types.MedicEnRoute
		}
		roster = append(roster, types.RosterEntry{
			ID:        medic.ID,
			Name:      medic.Name,
			Specialty: medic.Specialty,
			Status:    status,
			Location:  medic.Location,
		})
	}

	assigned := types.AssignedMedic{
		Medic:      best.medic,
		DistanceKm: best.distanceKm,
		ETAMinutes: best.etaMinutes,
	}
	assigned.Status = types.MedicEnRoute

	breakdown := best.breakdown
	result := types.MedicAssignment{
		AssignmentID:  uuid.NewString(),
		AssignedMedic: &assigned,
		MatchScore:    best.composite,
		Breakdown:     &breakdown,
		Reasoning: []string{
			fmt.Sprintf("Specialty match: %s for %s case", best.medic.Specialty, req.Category),
			fmt.Sprintf("Distance: %.2f km (ETA %.1f min)", best.distanceKm, best.etaMinutes),
			fmt.Sprintf("Certification: %s", strings.ReplaceAll(string(best.medic.CertificationLevel), "_", " ")),
			fmt.Sprintf("Rating: %.1f/5.0 (%d missions)", best.medic.Rating, best.medic.MissionsCompleted),
		},
		Alternatives:    alternatives,
		Roster:          roster,
		PatientLocation: &patient,
		MatchDurationMS: time.Since(start).Milliseconds(),
		Matched:         true,
	}

	m.logger.Info("medic assigned",
		slog.String("medic_id", best.medic.ID),
		slog.Float64("score", best.composite),
		slog.Float64("distance_km", best.distanceKm))

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
