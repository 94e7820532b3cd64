package types

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"latitude" validate:"min=-90,max=90"`
	Lon float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Valid reports whether the location is inside coordinate bounds and is not
// the (0,0) placeholder emitted by incomplete source rows.
func (l Location) Valid() bool {
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return false
	}
	return !(l.Lat == 0 && l.Lon == 0)
}

// DispatchInput carries the situational parameters for one dispatch decision.
// Constructed per request; the engine does not retain it.
type DispatchInput struct {
	WeatherRiskPct   float64 `json:"weather_risk_pct" validate:"min=0,max=100"`
	HarmThresholdMin float64 `json:"harm_threshold_min" validate:"gt=0"`
	GroundETAMin     float64 `json:"ground_eta_min" validate:"gt=0"`
	AirETAMin        float64 `json:"air_eta_min" validate:"gt=0"`
}

// DispatchResult is the immutable outcome of one dispatch decision.
type DispatchResult struct {
	ResponseMode  ResponseMode `json:"response_mode"`
	RuleTriggered DispatchRule `json:"rule_triggered"`
	Reasons       []string     `json:"reasons"`

	// Echoed inputs, kept for audit rendering.
	WeatherRiskPct   float64 `json:"weather_risk_pct"`
	HarmThresholdMin float64 `json:"harm_threshold_min"`
	GroundETAMin     float64 `json:"ground_eta_min"`
	AirETAMin        float64 `json:"air_eta_min"`

	// Derived values.
	TimeDeltaMin      float64 `json:"time_delta_min"`
	ExceedsWeather    bool    `json:"exceeds_weather"`
	ExceedsHarm       bool    `json:"exceeds_harm"`
	ExceedsEfficiency bool    `json:"exceeds_efficiency"`

	Confidence float64 `json:"confidence"`
}

// TriageInput carries the caller-reported symptom picture.
type TriageInput struct {
	Symptoms         []string `json:"symptoms"`
	FreeText         string   `json:"free_text"`
	DurationMinutes  *int     `json:"duration_minutes,omitempty" validate:"omitempty,min=0"`
	VoiceStressScore *float64 `json:"voice_stress_score,omitempty" validate:"omitempty,min=0,max=1"`
}

// ScoreBreakdown records how a triage severity was derived, for auditability.
type ScoreBreakdown struct {
	SymptomScore    int  `json:"symptom_score"`
	VoiceBonus      int  `json:"voice_bonus"`
	TotalScore      int  `json:"total_score"`
	RedFlagDetected bool `json:"red_flag_detected"`
	DurationMinutes *int `json:"duration_minutes,omitempty"`
}

// TriageResult is the immutable outcome of one triage scoring pass.
type TriageResult struct {
	Category          Category       `json:"category"`
	SeverityLevel     int            `json:"severity_level"`
	Escalate          bool           `json:"escalate_human"`
	Confidence        float64        `json:"confidence"`
	FollowupQuestions []string       `json:"followup_questions,omitempty"`
	Breakdown         ScoreBreakdown `json:"score_breakdown"`
}

// Medic is one responder in the in-memory roster. Generated once at startup
// from a fixed seed; the match path never mutates it.
type Medic struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Specialty          Specialty          `json:"specialty"`
	CertificationLevel CertificationLevel `json:"certification_level"`
	Location           Location           `json:"gps_location"`
	Status             MedicStatus        `json:"status"`
	CurrentLoad        int                `json:"current_load"`
	MissionsCompleted  int                `json:"missions_completed"`
	Rating             float64            `json:"rating"`
	Languages          []string           `json:"languages"`
}

// MedicScoreBreakdown exposes the weighted factors behind a composite score.
type MedicScoreBreakdown struct {
	DistanceScore  float64 `json:"distance_score"`
	SpecialtyScore float64 `json:"specialty_score"`
	WorkloadScore  float64 `json:"workload_score"`
	RatingScore    float64 `json:"rating_score"`
	CertScore      float64 `json:"cert_score"`
}

// AssignedMedic is the selected responder plus trip estimates.
type AssignedMedic struct {
	Medic
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes float64 `json:"eta_minutes"`
}

// MedicAlternative is a runner-up candidate kept for display.
type MedicAlternative struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Specialty  Specialty   `json:"specialty"`
	Status     MedicStatus `json:"status"`
	Location   Location    `json:"gps_location"`
	Score      float64     `json:"score"`
	ETAMinutes float64     `json:"eta_minutes"`
}

// RosterEntry annotates a roster member with its display status, which for
// the assigned medic differs from the stored status.
type RosterEntry struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Specialty Specialty   `json:"specialty"`
	Status    MedicStatus `json:"status"`
	Location  Location    `json:"gps_location"`
}

// MedicAssignment is the outcome of one matching pass. AssignedMedic is nil
// when no aerial responder is needed or none is available; Reasoning always
// explains the outcome.
type MedicAssignment struct {
	AssignmentID    string               `json:"assignment_id,omitempty"`
	AssignedMedic   *AssignedMedic       `json:"assigned_medic,omitempty"`
	MatchScore      float64              `json:"match_score,omitempty"`
	Breakdown       *MedicScoreBreakdown `json:"match_breakdown,omitempty"`
	Reasoning       []string             `json:"reasoning"`
	Alternatives    []MedicAlternative   `json:"alternatives,omitempty"`
	Roster          []RosterEntry        `json:"all_medics,omitempty"`
	PatientLocation *Location            `json:"patient_location,omitempty"`
	MatchDurationMS int64                `json:"match_time_ms"`
	Matched         bool                 `json:"matched"`
}

// LandingZone is one candidate drone touchdown point, loaded from static
// reference data and read-only thereafter.
type LandingZone struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Area      string  `json:"area"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ZoneSelection is a landing zone annotated with trip metrics from the
// patient location.
type ZoneSelection struct {
	LandingZone
	DistanceKm      float64 `json:"distance_km"`
	Bearing         float64 `json:"bearing"`
	BearingCardinal string  `json:"bearing_cardinal"`
	FlightTimeMin   float64 `json:"estimated_flight_time_min"`
}

// CatalogCase is one entry of the medical reference catalog.
type CatalogCase struct {
	ID               int    `json:"id"`
	CaseName         string `json:"case_name"`
	CaseNameNorm     string `json:"-"`
	Category         string `json:"category"`
	Description      string `json:"description,omitempty"`
	Severity         string `json:"severity"`
	SeverityLevel    int    `json:"severity_level"`
	CTAS             int    `json:"ctas"`
	HarmThresholdMin int    `json:"harm_threshold_min"`
	HarmThresholdMax int    `json:"harm_threshold_max"`
	HarmThresholdRaw string `json:"harm_threshold_raw,omitempty"`
	Intervention     string `json:"intervention,omitempty"`
	Equipment        string `json:"equipment,omitempty"`
}

// CaseAlternative is a runner-up catalog match.
type CaseAlternative struct {
	CaseName string  `json:"case_name"`
	Score    float64 `json:"score"`
}

// CaseMatch is the outcome of matching a free-text description against the
// reference catalog.
type CaseMatch struct {
	Query           string            `json:"query"`
	Case            CatalogCase       `json:"case"`
	Confidence      float64           `json:"confidence"`
	Method          MatchMethod       `json:"match_method"`
	MatchedKeywords []string          `json:"matched_keywords,omitempty"`
	Alternatives    []CaseAlternative `json:"alternatives,omitempty"`
}

// Scenario is one normalized row of the scenario reference file.
type Scenario struct {
	ScenarioID       int          `json:"scenario_id"`
	Location         string       `json:"location"`
	TimeOfDay        string       `json:"time_of_day"`
	EmergencyCase    string       `json:"emergency_case"`
	Severity         string       `json:"severity"`
	SeverityLevel    int          `json:"severity_level"`
	WeatherRiskPct   float64      `json:"weather_risk_pct"`
	TrafficLevel     float64      `json:"traffic_level"`
	HarmThresholdMin int          `json:"harm_threshold_min"`
	HarmThresholdMax int          `json:"harm_threshold_max"`
	GroundETAMin     float64      `json:"ground_eta_min"`
	AirETAMin        float64      `json:"air_eta_min"`
	VoiceStressScore float64      `json:"voice_stress_score"`
	ExpectedDecision ResponseMode `json:"expected_decision"`
	Rationale        string       `json:"rationale,omitempty"`
}

// DecisionCase is one normalized row of the decision test-case file.
type DecisionCase struct {
	CaseID           int          `json:"case_id"`
	CaseName         string       `json:"case_name"`
	Severity         string       `json:"severity"`
	SeverityLevel    int          `json:"severity_level"`
	WeatherRiskPct   float64      `json:"weather_risk_pct"`
	TrafficFlow      float64      `json:"traffic_flow"`
	HarmThresholdMin int          `json:"harm_threshold_min"`
	HarmThresholdMax int          `json:"harm_threshold_max"`
	GroundETAMin     float64      `json:"ground_eta_min"`
	AirETAMin        float64      `json:"air_eta_min"`
	VoiceStressScore float64      `json:"voice_stress_score"`
	ExpectedDecision ResponseMode `json:"expected_decision"`
	Reasoning        string       `json:"reasoning,omitempty"`
}

// ResponseMeta carries non-blocking annotations attached to a successful API
// response, such as input warnings from the dispatch engine.
type ResponseMeta struct {
	Warnings []string `json:"warnings,omitempty"`
}
