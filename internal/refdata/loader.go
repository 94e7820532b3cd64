package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"skymedic/internal/types"
)

// Reference file names under the data directory.
const (
	ScenariosFile     = "scenarios.json"
	DecisionCasesFile = "dispatch_cases.json"
	LandingZonesFile  = "landing_zones.json"
	CatalogFile       = "medical_catalog.json"
)

// Store holds all loaded reference data. It is populated once at startup and
// read-only afterwards.
type Store struct {
	Scenarios []types.Scenario
	Cases     []types.DecisionCase
	Zones     []types.LandingZone
	Catalog   []types.CatalogCase
}

// Loaded reports whether every reference file contributed at least one record.
func (s *Store) Loaded() bool {
	return s != nil &&
		len(s.Scenarios) > 0 &&
		len(s.Cases) > 0 &&
		len(s.Zones) > 0 &&
		len(s.Catalog) > 0
}

// record is one raw row of a reference file before normalization.
type record map[string]any

// str returns the first present key as a string, else the fallback.
func (r record) str(fallback string, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprintf("%v", v)
		}
	}
	return fallback
}

// num returns the first present key as a float64, else the fallback.
// String values parse as plain numbers; percent-style fields go through
// NormalizeWeatherRisk instead, which rescales and clamps.
func (r record) num(fallback float64, keys ...string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

// raw returns the first present key's raw value, else nil.
func (r record) raw(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// readSheet reads a reference file that is either a bare JSON array or a
// {"sheets": {"<name>": [...]}} workbook export. For the wrapped form the
// sheets are visited in name order and the first non-empty one wins.
func readSheet(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var rows []record
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows, nil
	}

	var wrapped struct {
		Sheets map[string][]record `json:"sheets"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	names := make([]string, 0, len(wrapped.Sheets))
	for name := range wrapped.Sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(wrapped.Sheets[name]) > 0 {
			return wrapped.Sheets[name], nil
		}
	}
	return nil, fmt.Errorf("parse %s: no usable sheet", filepath.Base(path))
}

// harmRange resolves a harm threshold that may arrive as a time string or a
// bare number under either field naming scheme.
func harmRange(r record, keys ...string) (int, int) {
	v := r.raw(keys...)
	switch h := v.(type) {
	case string:
		return ParseHarmTime(h)
	case float64:
		if h <= 0 {
			return 30, 30
		}
		return int(h), int(h)
	default:
		return 30, 30
	}
}

// LoadScenarios loads and normalizes the dispatch scenario file.
func LoadScenarios(path string, logger *slog.Logger) ([]types.Scenario, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	scenarios := make([]types.Scenario, 0, len(rows))
	for idx, r := range rows {
		severity := r.str("High", "severity", "Severity")
		harmMin, harmMax := harmRange(r, "harm_threshold_min", "Harm Threshold (min)")

		traffic := NormalizeWeatherRisk(r.raw("traffic_level_score", "Traffic Level"))
		if traffic > 1 {
			traffic /= 100
		}

		scenarios = append(scenarios, types.Scenario{
			ScenarioID:       int(r.num(float64(idx+1), "scenario_id", "Scenario ID")),
			Location:         r.str("Unknown", "location", "Location"),
			TimeOfDay:        r.str("Unknown", "time_of_day", "Time of Day"),
			EmergencyCase:    r.str("Unknown Emergency", "emergency_case", "Emergency Case"),
			Severity:         severity,
			SeverityLevel:    NormalizeSeverityLevel(severity),
			WeatherRiskPct:   NormalizeWeatherRisk(r.raw("weather_risk_score", "Weather Risk")),
			TrafficLevel:     traffic,
			HarmThresholdMin: harmMin,
			HarmThresholdMax: harmMax,
			GroundETAMin:     r.num(20, "ground_time_min", "Ground Time (min)"),
			AirETAMin:        r.num(3.6, "air_time_min", "Air Time (min)"),
			VoiceStressScore: r.num(0, "voice_stress_score"),
			ExpectedDecision: NormalizeDecisionLabel(r.str("", "ai_decision", "AI Decision")),
			Rationale:        r.str("", "rationale", "Rationale"),
		})
	}

	logger.Info("loaded scenarios", slog.String("path", path), slog.Int("count", len(scenarios)))
	return scenarios, nil
}

// LoadDecisionCases loads and normalizes the dispatch decision case file.
func LoadDecisionCases(path string, logger *slog.Logger) ([]types.DecisionCase, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	cases := make([]types.DecisionCase, 0, len(rows))
	for idx, r := range rows {
		severity := r.str("High", "severity", "Severity")
		harmMin, harmMax := harmRange(r, "harm_threshold_min", "Harm Limit (Min)")

		traffic := NormalizeWeatherRisk(r.raw("traffic_flow_score", "Traffic Flow"))
		if traffic > 1 {
			traffic /= 100
		}
		if traffic == 0 {
			traffic = 0.5
		}

		cases = append(cases, types.DecisionCase{
			CaseID:           idx + 1,
			CaseName:         r.str("Unknown Case", "case_name", "Case"),
			Severity:         severity,
			SeverityLevel:    NormalizeSeverityLevel(severity),
			WeatherRiskPct:   NormalizeWeatherRisk(r.raw("weather_risk_score", "Weather Risk")),
			TrafficFlow:      traffic,
			HarmThresholdMin: harmMin,
			HarmThresholdMax: harmMax,
			GroundETAMin:     r.num(20, "ground_eta_min", "Ground ETA"),
			AirETAMin:        r.num(3.6, "air_eta_min", "Air ETA"),
			VoiceStressScore: r.num(0, "voice_stress_score"),
			ExpectedDecision: NormalizeDecisionLabel(r.str("", "ai_dispatch_prediction", "AI Dispatch")),
			Reasoning:        r.str("", "reasoning", "Reasoning"),
		})
	}

	logger.Info("loaded decision cases", slog.String("path", path), slog.Int("count", len(cases)))
	return cases, nil
}

// LoadLandingZones loads the landing zone file. Records with out-of-range
// coordinates are logged and skipped so one bad row cannot break zone
// selection.
func LoadLandingZones(path string, logger *slog.Logger) ([]types.LandingZone, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	zones := make([]types.LandingZone, 0, len(rows))
	for idx, r := range rows {
		zone := types.LandingZone{
			ID:        idx + 1,
			Name:      r.str(fmt.Sprintf("Zone %d", idx+1), "name", "Place Name"),
			Area:      r.str("Unknown", "area", "Estimated Landing Area"),
			Latitude:  r.num(0, "latitude", "Latitude"),
			Longitude: r.num(0, "longitude", "Longitude"),
		}

		loc := types.Location{Lat: zone.Latitude, Lon: zone.Longitude}
		if !loc.Valid() {
			logger.Warn("skipping landing zone with invalid coordinates",
				slog.String("name", zone.Name),
				slog.Float64("latitude", zone.Latitude),
				slog.Float64("longitude", zone.Longitude))
			continue
		}

		zones = append(zones, zone)
	}

	logger.Info("loaded landing zones", slog.String("path", path), slog.Int("count", len(zones)))
	return zones, nil
}

// LoadCatalog loads and normalizes the medical reference catalog.
func LoadCatalog(path string, logger *slog.Logger) ([]types.CatalogCase, error) {
	rows, err := readSheet(path)
	if err != nil {
		return nil, err
	}

	catalog := make([]types.CatalogCase, 0, len(rows))
	for _, r := range rows {
		name := r.str("Unknown Case", "case_name")
		severity := r.str("High", "severity")
		harmRaw := r.str("", "time_to_irreversible_harm")
		harmMin, harmMax := ParseHarmTime(harmRaw)

		catalog = append(catalog, types.CatalogCase{
			ID:               int(r.num(0, "id")),
			CaseName:         name,
			CaseNameNorm:     NormalizeCaseName(name),
			Category:         r.str("Unknown", "category"),
			Description:      r.str("", "description"),
			Severity:         severity,
			SeverityLevel:    NormalizeSeverityLevel(severity),
			CTAS:             int(r.num(2, "ctas")),
			HarmThresholdMin: harmMin,
			HarmThresholdMax: harmMax,
			HarmThresholdRaw: harmRaw,
			Intervention:     r.str("", "intervention_first_5m"),
			Equipment:        r.str("", "required_core_equipments"),
		})
	}

	logger.Info("loaded medical catalog", slog.String("path", path), slog.Int("count", len(catalog)))
	return catalog, nil
}

// LoadAll loads the four reference files concurrently. A failure in any file
// fails the whole load; callers treat reference data as all-or-nothing.
func LoadAll(ctx context.Context, dir string, logger *slog.Logger) (*Store, error) {
	store := &Store{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		store.Scenarios, err = LoadScenarios(filepath.Join(dir, ScenariosFile), logger)
		return err
	})
	g.Go(func() error {
		var err error
		store.Cases, err = LoadDecisionCases(filepath.Join(dir, DecisionCasesFile), logger)
		return err
	})
	g.Go(func() error {
		var err error
		store.Zones, err = LoadLandingZones(filepath.Join(dir, LandingZonesFile), logger)
		return err
	})
	g.Go(func() error {
		var err error
		store.Catalog, err = LoadCatalog(filepath.Join(dir, CatalogFile), logger)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalData, "failed to load reference data", err)
	}

	logger.Info("reference data loaded",
		slog.Int("scenarios", len(store.Scenarios)),
		slog.Int("cases", len(store.Cases)),
		slog.Int("zones", len(store.Zones)),
		slog.Int("catalog", len(store.Catalog)))

	return store, nil
}
