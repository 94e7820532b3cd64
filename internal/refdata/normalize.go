// Package refdata loads the reference data files and normalizes the many
// legacy value formats they carry into the canonical domain types.
//
// Every normalization primitive is total: malformed input falls back to a
// documented safe default instead of failing the load.
package refdata

import (
	"strconv"
	"strings"

	"skymedic/internal/types"
)

// NormalizeWeatherRisk converts a raw weather or traffic risk value to a
// percentage in [0, 100]. Strings may carry a '%' suffix, numeric values at
// or below 1.0 are treated as fractions, and anything unparseable maps to 0.
func NormalizeWeatherRisk(raw any) float64 {
	var num float64
	switch v := raw.(type) {
	case nil:
		return 0
	case string:
		clean := strings.TrimSpace(strings.ReplaceAll(v, "%", ""))
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0
		}
		num = parsed
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	default:
		return 0
	}

	if num <= 1.0 {
		num *= 100.0
	}
	if num < 0 {
		return 0
	}
	if num > 100 {
		return 100
	}
	return num
}

// NormalizeDecisionLabel maps free-form dispatch labels to a canonical
// response mode. Drone, doctor, aerial and air keywords select DOCTOR_DRONE;
// everything else, including the empty string, defaults to AMBULANCE.
func NormalizeDecisionLabel(label string) types.ResponseMode {
	if label == "" {
		return types.ModeAmbulance
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(label) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '\t':
			b.WriteByte(' ')
		}
	}
	clean := strings.Join(strings.Fields(b.String()), "_")

	for _, kw := range []string{"DRONE", "DOCTOR", "AERIAL", "AIR"} {
		if strings.Contains(clean, kw) {
			return types.ModeDoctorDrone
		}
	}
	return types.ModeAmbulance
}

// ParseHarmTime parses a time-to-irreversible-harm string into a
// (min, max) minute pair. Supported shapes: "4-6 m", "15-30 min", "30 min",
// ">60 m". Invalid input returns the safe default (30, 30); swapped ranges
// are corrected and single values floored at 1 minute.
func ParseHarmTime(raw string) (int, int) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 30, 30
	}

	// Strip unit suffixes: "minutes", "mins", "min", bare "m".
	lower := strings.ToLower(clean)
	for _, unit := range []string{"minutes", "minute", "mins", "min"} {
		if i := strings.Index(lower, unit); i >= 0 {
			clean = clean[:i] + clean[i+len(unit):]
			break
		}
	}
	clean = strings.TrimSpace(clean)
	clean = strings.TrimSuffix(strings.TrimSuffix(clean, "m"), "M")
	clean = strings.TrimSpace(strings.TrimLeft(clean, ">"))

	if strings.Contains(clean, "-") {
		parts := strings.SplitN(clean, "-", 2)
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo != nil || errHi != nil {
			return 30, 30
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return int(lo), int(hi)
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 30, 30
	}
	v := int(val)
	if v < 1 {
		v = 1
	}
	return v, v
}

var severityLevels = map[string]int{
	"critical":         3,
	"life-threatening": 3,
	"emergency":        3,
	"high":             2,
	"serious":          2,
	"medium":           1,
	"moderate":         1,
	"low":              0,
	"minor":            0,
}

// NormalizeSeverityLevel converts a severity word to its numeric level.
// Unknown or empty values default to 2 (High).
func NormalizeSeverityLevel(severity string) int {
	if severity == "" {
		return 2
	}
	if level, ok := severityLevels[strings.ToLower(strings.TrimSpace(severity))]; ok {
		return level
	}
	return 2
}

// NormalizeCaseName prepares a case name for matching: lowercase, punctuation
// stripped (hyphens kept), whitespace collapsed.
func NormalizeCaseName(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
