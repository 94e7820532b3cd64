// Package eval replays the reference scenario and decision-case datasets
// through the dispatch engine and reports agreement with the expected
// decisions. The report is advisory; it never gates a live dispatch.
package eval

import (
	"fmt"
	"log/slog"
	"time"

	"skymedic/internal/dispatch"
	"skymedic/internal/types"
)

// Result is the outcome of replaying one dataset row.
type Result struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Expected types.ResponseMode `json:"expected"`
	Actual   types.ResponseMode `json:"actual"`
	Rule     types.DispatchRule `json:"rule_triggered"`
	Match    bool               `json:"match"`
}

// Report summarizes one dataset replay.
type Report struct {
	Source     string    `json:"source"`
	Total      int       `json:"total"`
	Matches    int       `json:"matches"`
	Mismatches int       `json:"mismatches"`
	Results    []Result  `json:"results"`
	Timestamp  time.Time `json:"timestamp"`
}

// Accuracy is the match percentage, 0 for an empty report.
func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Total) * 100
}

// decisionsAgree compares the engine's mode with the dataset's expected
// label. The datasets predate parallel dispatch and only know AMBULANCE and
// DOCTOR_DRONE, so agreement is judged on whether the aerial unit launches.
func decisionsAgree(expected, actual types.ResponseMode) bool {
	return expected.RequiresAerial() == actual.RequiresAerial()
}

// Runner replays reference datasets through the dispatch engine.
type Runner struct {
	thresholds dispatch.Thresholds
	logger     *slog.Logger
}

// NewRunner builds a runner using the given dispatch thresholds.
func NewRunner(thresholds dispatch.Thresholds, logger *slog.Logger) *Runner {
	return &Runner{thresholds: thresholds, logger: logger}
}

// RunScenarios replays the scenario dataset.
func (r *Runner) RunScenarios(scenarios []types.Scenario) Report {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		decision := dispatch.DecideWith(types.DispatchInput{
			WeatherRiskPct:   s.WeatherRiskPct,
			HarmThresholdMin: float64(s.HarmThresholdMin),
			GroundETAMin:     s.GroundETAMin,
			AirETAMin:        s.AirETAMin,
		}, r.thresholds)

		results = append(results, Result{
			ID:       fmt.Sprintf("Scenario %d", s.ScenarioID),
			Name:     s.EmergencyCase,
			Expected: s.ExpectedDecision,
			Actual:   decision.ResponseMode,
			Rule:     decision.RuleTriggered,
			Match:    decisionsAgree(s.ExpectedDecision, decision.ResponseMode),
		})
	}
	return r.report("scenarios", results)
}

// RunCases replays the decision-case dataset.
func (r *Runner) RunCases(cases []types.DecisionCase) Report {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		decision := dispatch.DecideWith(types.DispatchInput{
			WeatherRiskPct:   c.WeatherRiskPct,
			HarmThresholdMin: float64(c.HarmThresholdMin),
			GroundETAMin:     c.GroundETAMin,
			AirETAMin:        c.AirETAMin,
		}, r.thresholds)

		results = append(results, Result{
			ID:       fmt.Sprintf("Case %d", c.CaseID),
			Name:     c.CaseName,
			Expected: c.ExpectedDecision,
			Actual:   decision.ResponseMode,
			Rule:     decision.RuleTriggered,
			Match:    decisionsAgree(c.ExpectedDecision, decision.ResponseMode),
		})
	}
	return r.report("cases", results)
}

func (r *Runner) report(source string, results []Result) Report {
	matches := 0
	for _, res := range results {
		if res.Match {
			matches++
		}
	}
	report := Report{
		Source:     source,
		Total:      len(results),
		Matches:    matches,
		Mismatches: len(results) - matches,
		Results:    results,
		Timestamp:  time.Now().UTC(),
	}

	r.logger.Info("dataset replay complete",
		slog.String("source", source),
		slog.Int("total", report.Total),
		slog.Int("matches", report.Matches),
		slog.Float64("accuracy_pct", report.Accuracy()))

	return report
}
