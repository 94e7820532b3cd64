// Package dispatch implements the rule-based response mode decision.
//
// The engine evaluates three ordered threshold rules over the situational
// parameters and falls back to a ground ambulance. Decide is a pure function:
// identical inputs always produce identical results, and invalid ranges are
// never rejected here (Warnings reports them as advisories).
package dispatch

import (
	"fmt"

	"skymedic/internal/types"
)

// Canonical decision thresholds.
const (
	// WeatherRiskThreshold is the weather risk percentage above which drone
	// operations are unsafe.
	WeatherRiskThreshold = 35.0

	// EfficiencyTimeDelta is the minimum time saving in minutes that
	// justifies launching the aerial unit alongside the ambulance.
	EfficiencyTimeDelta = 10.0
)

// Thresholds lets deployments tune the decision bars. The zero value is not
// usable; obtain one from DefaultThresholds.
type Thresholds struct {
	WeatherRiskPct     float64
	EfficiencyDeltaMin float64
}

// DefaultThresholds returns the canonical decision thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WeatherRiskPct:     WeatherRiskThreshold,
		EfficiencyDeltaMin: EfficiencyTimeDelta,
	}
}

// Decide evaluates the decision rules with the canonical thresholds.
func Decide(in types.DispatchInput) types.DispatchResult {
	return DecideWith(in, DefaultThresholds())
}

// DecideWith evaluates the decision rules in strict priority order; the
// first matching rule wins. All comparisons are strict greater-than, so
// exactly-at-threshold inputs fall through to the next rule.
//
//  1. Safety filter: weather risk above the bar forces a ground ambulance.
//  2. Emergency override: ground ETA past the harm window launches both units.
//  3. Efficiency: the aerial unit saving more than the delta launches both.
//  4. Default: ground ambulance.
func DecideWith(in types.DispatchInput, th Thresholds) types.DispatchResult {
	timeDelta := in.GroundETAMin - in.AirETAMin

	exceedsWeather := in.WeatherRiskPct > th.WeatherRiskPct
	exceedsHarm := in.GroundETAMin > in.HarmThresholdMin
	exceedsEfficiency := timeDelta > th.EfficiencyDeltaMin

	var (
		mode       types.ResponseMode
		rule       types.DispatchRule
		reasons    []string
		confidence float64
	)

	switch {
	case exceedsWeather:
		mode = types.ModeAmbulance
		rule = types.RuleSafetyFilter
		confidence = 1.0
		reasons = []string{
			fmt.Sprintf("Weather risk %.1f%% exceeds safety threshold (%.0f%%)", in.WeatherRiskPct, th.WeatherRiskPct),
			"Drone operations unsafe - defaulting to ground ambulance",
		}

	case exceedsHarm:
		mode = types.ModeBoth
		rule = types.RuleEmergencyOverride
		confidence = 0.98
		reasons = []string{
			fmt.Sprintf("Ground ETA (%.1f min) exceeds harm threshold (%.0f min)", in.GroundETAMin, in.HarmThresholdMin),
			"CRITICAL: Simultaneous Drone (Speed) + Ambulance (Transport) dispatched",
			fmt.Sprintf("Drone arrival: %.1f min (saves %.1f min)", in.AirETAMin, timeDelta),
		}

	case exceedsEfficiency:
		mode = types.ModeBoth
		rule = types.RuleEfficiency
		confidence = 0.90
		reasons = []string{
			fmt.Sprintf("Drone saves %.1f min (threshold: %.0f min)", timeDelta, th.EfficiencyDeltaMin),
			fmt.Sprintf("Ground ETA: %.1f min vs Drone ETA: %.1f min", in.GroundETAMin, in.AirETAMin),
			"Dispatching Drone for immediate aid + Ambulance for transport",
		}

	default:
		mode = types.ModeAmbulance
		rule = types.RuleDefault
		confidence = 0.9
		reasons = []string{
			"Ground ambulance is safe and sufficient",
			fmt.Sprintf("Weather risk acceptable (%.1f%%)", in.WeatherRiskPct),
			fmt.Sprintf("Ground ETA (%.1f min) within harm threshold (%.0f min)", in.GroundETAMin, in.HarmThresholdMin),
			fmt.Sprintf("Time savings (%.1f min) below efficiency threshold (%.0f min)", timeDelta, th.EfficiencyDeltaMin),
		}
	}

	return types.DispatchResult{
		ResponseMode:  mode,
		RuleTriggered: rule,
		Reasons:       reasons,

		WeatherRiskPct:   in.WeatherRiskPct,
		HarmThresholdMin: in.HarmThresholdMin,
		GroundETAMin:     in.GroundETAMin,
		AirETAMin:        in.AirETAMin,

		TimeDeltaMin:      timeDelta,
		ExceedsWeather:    exceedsWeather,
		ExceedsHarm:       exceedsHarm,
		ExceedsEfficiency: exceedsEfficiency,

		Confidence: confidence,
	}
}

// Warnings validates the input ranges and returns advisory messages. It
// never blocks execution; callers may surface or ignore the warnings.
func Warnings(in types.DispatchInput) []string {
	var warnings []string

	if in.WeatherRiskPct < 0 || in.WeatherRiskPct > 100 {
		warnings = append(warnings, fmt.Sprintf("Weather risk %.1f%% outside valid range (0-100%%)", in.WeatherRiskPct))
	}
	if in.HarmThresholdMin <= 0 {
		warnings = append(warnings, fmt.Sprintf("Harm threshold %.1f min must be positive", in.HarmThresholdMin))
	}
	if in.GroundETAMin <= 0 {
		warnings = append(warnings, fmt.Sprintf("Ground ETA %.1f min must be positive", in.GroundETAMin))
	}
	if in.AirETAMin <= 0 {
		warnings = append(warnings, fmt.Sprintf("Air ETA %.1f min must be positive", in.AirETAMin))
	}
	if in.AirETAMin > in.GroundETAMin {
		warnings = append(warnings, fmt.Sprintf("Air ETA (%.1f min) slower than ground (%.1f min) - unusual", in.AirETAMin, in.GroundETAMin))
	}
	if in.GroundETAMin > 120 {
		warnings = append(warnings, fmt.Sprintf("Ground ETA %.1f min seems unreasonably high", in.GroundETAMin))
	}
	if in.AirETAMin > 30 {
		warnings = append(warnings, fmt.Sprintf("Air ETA %.1f min seems unreasonably high for drone", in.AirETAMin))
	}

	return warnings
}
