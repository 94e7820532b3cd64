package types

// ResponseMode identifies which transport units are dispatched.
type ResponseMode string

const (
	ModeAmbulance   ResponseMode = "AMBULANCE"
	ModeDoctorDrone ResponseMode = "DOCTOR_DRONE"
	ModeBoth        ResponseMode = "BOTH"
)

// RequiresAerial reports whether the mode involves launching the aerial unit.
func (m ResponseMode) RequiresAerial() bool {
	return m == ModeDoctorDrone || m == ModeBoth
}

// DispatchRule identifies which decision rule produced a dispatch result.
type DispatchRule string

const (
	RuleSafetyFilter      DispatchRule = "SAFETY_FILTER"
	RuleEmergencyOverride DispatchRule = "EMERGENCY_OVERRIDE"
	RuleEfficiency        DispatchRule = "EFFICIENCY_OPTIMIZATION"
	RuleDefault           DispatchRule = "DEFAULT"
)

// Category is the medical category assigned by the triage scorer.
type Category string

const (
	CategoryTraumaBleeding Category = "trauma_bleeding"
	CategoryCardiac        Category = "cardiac"
	CategoryRespiratory    Category = "respiratory"
	CategoryNeuro          Category = "neuro"
	CategoryAllergic       Category = "allergic"
	CategoryInfectionFever Category = "infection_fever"
	CategoryGIDehydration  Category = "gi_dehydration"
	CategoryMentalHealth   Category = "mental_health"
	CategoryOtherUnclear   Category = "other_unclear"
)

// CategoryPriority is the fixed tie-break order when a symptom set intersects
// more than one category. Earlier entries win.
var CategoryPriority = []Category{
	CategoryTraumaBleeding,
	CategoryCardiac,
	CategoryRespiratory,
	CategoryNeuro,
	CategoryAllergic,
	CategoryInfectionFever,
	CategoryGIDehydration,
	CategoryMentalHealth,
}

// MedicStatus represents a responder's availability state.
type MedicStatus string

const (
	MedicAvailable MedicStatus = "available"
	MedicOnMission MedicStatus = "on_mission"
	MedicOffDuty   MedicStatus = "off_duty"
	MedicEnRoute   MedicStatus = "en_route"
)

// Specialty is a responder's medical specialty.
type Specialty string

const (
	SpecialtyCardiac     Specialty = "cardiac"
	SpecialtyTrauma      Specialty = "trauma"
	SpecialtyRespiratory Specialty = "respiratory"
	SpecialtyNeuro       Specialty = "neuro"
	SpecialtyPediatric   Specialty = "pediatric"
	SpecialtyGeneral     Specialty = "general"
)

// CertificationLevel is a responder's certification tier.
type CertificationLevel string

const (
	CertParamedic    CertificationLevel = "paramedic"
	CertEMTAdvanced  CertificationLevel = "emt_advanced"
	CertCriticalCare CertificationLevel = "critical_care"
)

// MatchMethod describes how the catalog matcher arrived at a result.
type MatchMethod string

const (
	MatchExact        MatchMethod = "exact"
	MatchTokenOverlap MatchMethod = "token_overlap"
	MatchPartial      MatchMethod = "partial"
	MatchFallback     MatchMethod = "fallback"
)

// SeverityLabel converts a numeric severity level to its display label.
func SeverityLabel(level int) string {
	switch level {
	case 0:
		return "Insufficient Info"
	case 1:
		return "Medium"
	case 2:
		return "High"
	case 3:
		return "Critical"
	default:
		return "Unknown"
	}
}
