// Package triage implements the symptom point scorer.
//
// Severity is derived from a fixed point table with a red-flag fast path;
// category selection intersects the symptom set with fixed category sets and
// resolves collisions by a fixed priority order. Score is a pure function
// over its input.
package triage

import (
	"strings"

	"skymedic/internal/types"
)

// voiceStressThreshold is the stress score at or above which one bonus point
// is added, provided symptoms are already present.
const voiceStressThreshold = 0.80

// redFlags force severity 3 and escalation immediately, bypassing scoring.
var redFlags = map[string]struct{}{
	"trouble_breathing":      {},
	"choking":                {},
	"turning_blue":           {},
	"chest_pain_crushing":    {},
	"unconscious":            {},
	"not_responding":         {},
	"seizure_now":            {},
	"face_droop":             {},
	"slurred_speech":         {},
	"arm_weakness":           {},
	"severe_bleeding":        {},
	"heavy_bleeding":         {},
	"anaphylaxis_signs":      {},
	"severe_allergy_swelling": {},
}

// symptomPoints assigns each known symptom tag its point value (1-5).
// Unknown tags contribute zero.
var symptomPoints = map[string]int{
	// 5-point symptoms (critical)
	"unconscious":             5,
	"not_responding":          5,
	"fainting":                5,
	"severe_bleeding":         5,
	"heavy_bleeding":          5,
	"face_droop":              5,
	"slurred_speech":          5,
	"arm_weakness":            5,
	"stroke_signs":            5,
	"severe_allergy_swelling": 5,
	"anaphylaxis_signs":       5,

	// 4-point symptoms (urgent)
	"trouble_breathing":   4,
	"shortness_of_breath": 4,
	"chest_pain":          4,
	"chest_pain_crushing": 4,
	"choking":             4,
	"turning_blue":        4,

	// 3-point symptoms (concerning)
	"moderate_bleeding": 3,
	"seizure_now":       3,
	"major_trauma":      3,
	"head_injury":       3,
	"confusion":         3,

	// 2-point symptoms (moderate)
	"high_fever":      2,
	"fever":           2,
	"vomiting_severe": 2,
	"diarrhea_severe": 2,
	"dehydration":     2,
	"palpitations":    2,
	"wheezing":        2,

	// 1-point symptoms (mild)
	"mild_pain":          1,
	"headache":           1,
	"rash":               1,
	"chills":             1,
	"nausea":             1,
	"vomiting":           1,
	"diarrhea":           1,
	"panic":              1,
	"severe_distress":    1,
	"swelling_face_lips": 1,
}

// categoryRules maps each category to its symptom tag set. A tag belongs to
// at most one category.
var categoryRules = map[types.Category]map[string]struct{}{
	types.CategoryTraumaBleeding: setOf(
		"severe_bleeding", "heavy_bleeding", "moderate_bleeding",
		"major_trauma", "head_injury",
	),
	types.CategoryCardiac: setOf(
		"chest_pain", "chest_pain_crushing", "palpitations",
	),
	types.CategoryRespiratory: setOf(
		"shortness_of_breath", "wheezing", "choking",
		"trouble_breathing", "turning_blue",
	),
	types.CategoryNeuro: setOf(
		"seizure_now", "fainting", "face_droop", "slurred_speech",
		"arm_weakness", "stroke_signs", "confusion", "unconscious",
		"not_responding",
	),
	types.CategoryAllergic: setOf(
		"rash", "swelling_face_lips", "anaphylaxis_signs",
		"severe_allergy_swelling",
	),
	types.CategoryInfectionFever: setOf(
		"fever", "high_fever", "chills",
	),
	types.CategoryGIDehydration: setOf(
		"vomiting", "vomiting_severe", "diarrhea", "diarrhea_severe",
		"dehydration", "nausea",
	),
	types.CategoryMentalHealth: setOf(
		"panic", "severe_distress",
	),
}

// followupQuestions are returned on the insufficient-information path.
var followupQuestions = []string{
	"What is the main symptom?",
	"How long has it been happening?",
	"Is the person conscious and breathing normally?",
	"Is there any bleeding or visible injury?",
	"Can the person speak in full sentences?",
}

func setOf(tags ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Score runs the triage pass over the reported symptom picture.
func Score(in types.TriageInput) types.TriageResult {
	symptoms := make(map[string]struct{}, len(in.Symptoms))
	for _, s := range in.Symptoms {
		symptoms[s] = struct{}{}
	}

	// Insufficient information: nothing reported at all.
	if len(symptoms) == 0 && strings.TrimSpace(in.FreeText) == "" {
		return types.TriageResult{
			Category:          types.CategoryOtherUnclear,
			SeverityLevel:     0,
			Escalate:          false,
			Confidence:        0.0,
			FollowupQuestions: followupQuestions,
			Breakdown: types.ScoreBreakdown{
				DurationMinutes: in.DurationMinutes,
			},
		}
	}

	category := pickCategory(symptoms)
	redFlag := hasRedFlag(symptoms)

	baseScore := symptomScore(symptoms)
	voiceBonus := 0
	if baseScore > 0 && in.VoiceStressScore != nil && *in.VoiceStressScore >= voiceStressThreshold {
		voiceBonus = 1
	}
	totalScore := baseScore + voiceBonus

	var severity int
	if redFlag {
		severity = 3
	} else {
		severity = severityForScore(totalScore)
	}
	escalate := severity == 3

	var confidence float64
	switch {
	case severity == 0:
		confidence = 0.0
	case redFlag || severity == 3:
		confidence = 0.90
	case severity == 2:
		confidence = 0.75
	default:
		confidence = 0.65
	}

	var followups []string
	if severity == 0 {
		followups = followupQuestions
	}

	return types.TriageResult{
		Category:          category,
		SeverityLevel:     severity,
		Escalate:          escalate,
		Confidence:        confidence,
		FollowupQuestions: followups,
		Breakdown: types.ScoreBreakdown{
			SymptomScore:    baseScore,
			VoiceBonus:      voiceBonus,
			TotalScore:      totalScore,
			RedFlagDetected: redFlag,
			DurationMinutes: in.DurationMinutes,
		},
	}
}

// pickCategory intersects the symptom set with each category set and
// resolves multiple hits by the fixed priority order.
func pickCategory(symptoms map[string]struct{}) types.Category {
	hits := make(map[types.Category]bool, len(categoryRules))
	for cat, tags := range categoryRules {
		if intersects(symptoms, tags) {
			hits[cat] = true
		}
	}
	if len(hits) == 0 {
		return types.CategoryOtherUnclear
	}
	for _, cat := range types.CategoryPriority {
		if hits[cat] {
			return cat
		}
	}
	return types.CategoryOtherUnclear
}

func hasRedFlag(symptoms map[string]struct{}) bool {
	return intersects(symptoms, redFlags)
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func symptomScore(symptoms map[string]struct{}) int {
	score := 0
	for s := range symptoms {
		score += symptomPoints[s]
	}
	return score
}

// severityForScore maps a total point score onto the 0-3 severity scale.
func severityForScore(score int) int {
	switch {
	case score == 0:
		return 0
	case score <= 2:
		return 1
	case score <= 4:
		return 2
	default:
		return 3
	}
}

// FollowupQuestions returns the fixed question list asked on the
// insufficient-information path.
func FollowupQuestions() []string {
	out := make([]string, len(followupQuestions))
	copy(out, followupQuestions)
	return out
}
