// Package roster holds the in-memory medic roster and the matcher that
// ranks responders for an incident.
//
// The roster is generated once at startup from an explicit seed so every
// process with the same configuration sees the same responders. The match
// path never mutates roster state.
package roster

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"skymedic/internal/types"
)

// RiyadhCenter anchors all generated coordinates.
var RiyadhCenter = types.Location{Lat: 24.7136, Lon: 46.6753}

// Offsets around the center, in degrees.
const (
	medicOffsetDeg   = 0.18
	patientOffsetDeg = 0.15
)

var medicNames = []string{
	"Dr. Ahmed Al-Rashid", "Dr. Fatima Al-Zahrani", "Mohammed Al-Qahtani",
	"Sara Al-Mutairi", "Dr. Khalid Al-Dosari", "Noura Al-Shehri",
	"Abdullah Al-Harbi", "Layla Al-Otaibi", "Dr. Omar Al-Ghamdi",
	"Aisha Al-Fadel", "Dr. Saleh Al-Subaie", "Reem Al-Mansour",
	"Faisal Al-Juhani", "Maha Al-Tamimi", "Dr. Yasser Al-Anazi",
}

var specialtyOrder = []types.Specialty{
	types.SpecialtyCardiac,
	types.SpecialtyTrauma,
	types.SpecialtyRespiratory,
	types.SpecialtyNeuro,
	types.SpecialtyPediatric,
	types.SpecialtyGeneral,
}

var certOrder = []types.CertificationLevel{
	types.CertParamedic,
	types.CertEMTAdvanced,
	types.CertCriticalCare,
}

// statusPool weights availability 7:2:1.
var statusPool = []types.MedicStatus{
	types.MedicAvailable, types.MedicAvailable, types.MedicAvailable,
	types.MedicAvailable, types.MedicAvailable, types.MedicAvailable,
	types.MedicAvailable,
	types.MedicOnMission, types.MedicOnMission,
	types.MedicOffDuty,
}

var languagePool = []string{"ar", "en", "ur", "fr"}

// Store is the seeded medic roster. UpdateStatus exists for a dispatch
// confirmation step; the match path itself is read-only.
type Store struct {
	mu     sync.RWMutex
	medics []types.Medic
}

// Generate builds a deterministic roster of size medics from the given seed.
// Sizes beyond the name list cycle through it with a numeric suffix.
func Generate(seed int64, size int) *Store {
	if size <= 0 {
		size = len(medicNames)
	}
	rng := rand.New(rand.NewSource(seed))

	medics := make([]types.Medic, 0, size)
	for i := 0; i < size; i++ {
		name := medicNames[i%len(medicNames)]
		if i >= len(medicNames) {
			name = fmt.Sprintf("%s %d", name, i/len(medicNames)+1)
		}

		lat := RiyadhCenter.Lat + uniform(rng, -medicOffsetDeg, medicOffsetDeg)
		lon := RiyadhCenter.Lon + uniform(rng, -medicOffsetDeg, medicOffsetDeg)

		medics = append(medics, types.Medic{
			ID:                 fmt.Sprintf("MED-%d", 1000+i),
			Name:               name,
			Specialty:          specialtyOrder[i%len(specialtyOrder)],
			CertificationLevel: certOrder[i%len(certOrder)],
			Location:           types.Location{Lat: round6(lat), Lon: round6(lon)},
			Status:             statusPool[rng.Intn(len(statusPool))],
			CurrentLoad:        rng.Intn(81),
			MissionsCompleted:  15 + rng.Intn(236),
			Rating:             round1(4.2 + rng.Float64()*0.8),
			Languages:          sampleLanguages(rng),
		})
	}

	return &Store{medics: medics}
}

// All returns a copy of the roster.
func (s *Store) All() []types.Medic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Medic, len(s.medics))
	copy(out, s.medics)
	return out
}

// Available returns the medics currently free for assignment.
func (s *Store) Available() []types.Medic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Medic, 0, len(s.medics))
	for _, m := range s.medics {
		if m.Status == types.MedicAvailable {
			out = append(out, m)
		}
	}
	return out
}

// ByID returns the medic with the given ID, or nil.
func (s *Store) ByID(id string) *types.Medic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.medics {
		if m.ID == id {
			medic := m
			return &medic
		}
	}
	return nil
}

// UpdateStatus sets a medic's availability. Returns a not-found error for an
// unknown ID.
func (s *Store) UpdateStatus(id string, status types.MedicStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.medics {
		if s.medics[i].ID == id {
			s.medics[i].Status = status
			return nil
		}
	}
	return types.NewAppError(types.ErrCodeNotFoundMedic,
		fmt.Sprintf("medic %s not found", id), nil)
}

// PatientLocation derives a deterministic patient location from a scenario
// seed, within ±0.15° of the Riyadh center.
func PatientLocation(seed int64) types.Location {
	rng := rand.New(rand.NewSource(seed))
	return types.Location{
		Lat: round6(RiyadhCenter.Lat + uniform(rng, -patientOffsetDeg, patientOffsetDeg)),
		Lon: round6(RiyadhCenter.Lon + uniform(rng, -patientOffsetDeg, patientOffsetDeg)),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func sampleLanguages(rng *rand.Rand) []string {
	n := 2 + rng.Intn(2)
	idx := rng.Perm(len(languagePool))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, languagePool[i])
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

