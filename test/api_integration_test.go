// Package test contains integration tests that exercise the full API stack:
// real configuration, the reference datasets shipped under data/, the
// generated medic roster, and every mounted v1 route. Unlike the package
// level unit tests these go through the complete middleware chain, so they
// also cover request IDs, security headers, and the response envelope.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/api/handlers"
	"skymedic/internal/catalog"
	"skymedic/internal/config"
	"skymedic/internal/core"
	"skymedic/internal/dispatch"
	"skymedic/internal/eval"
	"skymedic/internal/refdata"
	"skymedic/internal/roster"
	"skymedic/internal/types"
	"skymedic/internal/zones"
)

// newTestStack builds the server exactly the way cmd/api does, reading the
// real reference files from ../data.
func newTestStack(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Environment: "local",
		Service:     "skymedic-api",
		LogLevel:    "info",
		Server: config.ServerConfig{
			Port:            "8080",
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Data:   config.DataConfig{Dir: "../data"},
		Roster: config.RosterConfig{Seed: 42, Size: 15},
		Dispatch: config.DispatchConfig{
			WeatherRiskThresholdPct: 35,
			EfficiencyDeltaMin:      10,
		},
		Fleet: config.FleetConfig{
			AerialSpeedKmh: 120,
			GroundSpeedKmh: 40,
		},
		Security: config.SecurityConfig{CorsAllowedOrigins: []string{"*"}},
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refStore, err := refdata.LoadAll(ctx, cfg.Data.Dir, logger)
	if err != nil {
		t.Fatalf("loading reference data: %v", err)
	}

	rosterStore := roster.Generate(cfg.Roster.Seed, cfg.Roster.Size)
	medicMatcher := roster.NewMatcher(rosterStore, roster.FleetSpeeds{
		AerialKmh: cfg.Fleet.AerialSpeedKmh,
		GroundKmh: cfg.Fleet.GroundSpeedKmh,
	}, logger)
	caseMatcher := catalog.NewMatcher(refStore.Catalog)
	zoneSelector := zones.NewSelector(refStore.Zones, cfg.Fleet.AerialSpeedKmh, logger)

	thresholds := dispatch.Thresholds{
		WeatherRiskPct:     cfg.Dispatch.WeatherRiskThresholdPct,
		EfficiencyDeltaMin: cfg.Dispatch.EfficiencyDeltaMin,
	}
	evalRunner := eval.NewRunner(thresholds, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	dispatchHandler := handlers.NewDispatchHandler(thresholds, logger)
	triageHandler := handlers.NewTriageHandler(srv.Validator, logger)
	catalogHandler := handlers.NewCatalogHandler(caseMatcher, logger)
	medicsHandler := handlers.NewMedicsHandler(medicMatcher, rosterStore, srv.Validator, logger)
	zonesHandler := handlers.NewZonesHandler(zoneSelector, logger)
	evalHandler := handlers.NewEvalHandler(evalRunner, refStore, srv.Validator, logger)

	srv.V1RouteRegistrars = []core.V1RouteRegistrar{
		func(r chi.Router) { r.Route("/dispatch", dispatchHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/triage", triageHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/catalog", catalogHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/medics", medicsHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/zones", zonesHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/eval", evalHandler.RegisterRoutes) },
	}
	srv.HealthProbes = []core.HealthProbe{
		core.Probe{
			ProbeName: "reference_data",
			CheckFunc: func(ctx context.Context) error {
				if !refStore.Loaded() {
					return errors.New("reference data incomplete")
				}
				return nil
			},
		},
		core.Probe{
			ProbeName: "roster",
			CheckFunc: func(ctx context.Context) error {
				if len(rosterStore.All()) == 0 {
					return errors.New("medic roster is empty")
				}
				return nil
			},
		},
	}

	srv.MountRoutes()
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func unwrapData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decoding data: %v (body %s)", err, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var health struct {
		Status     string `json:"status"`
		Components map[string]struct {
			Status string `json:"status"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	for _, name := range []string{"reference_data", "roster"} {
		if component, ok := health.Components[name]; !ok || component.Status != "healthy" {
			t.Errorf("component %s = %+v, want healthy", name, component)
		}
	}

	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Error("expected X-Request-Id response header")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestDispatchDecisionRules(t *testing.T) {
	h := newTestStack(t)

	tests := []struct {
		name     string
		input    types.DispatchInput
		wantMode types.ResponseMode
		wantRule types.DispatchRule
	}{
		{
			name: "high weather grounds the drone",
			input: types.DispatchInput{
				WeatherRiskPct: 60, HarmThresholdMin: 10,
				GroundETAMin: 20, AirETAMin: 4,
			},
			wantMode: types.ModeAmbulance,
			wantRule: types.RuleSafetyFilter,
		},
		{
			name: "harm window forces aerial",
			input: types.DispatchInput{
				WeatherRiskPct: 10, HarmThresholdMin: 5,
				GroundETAMin: 18, AirETAMin: 4,
			},
			wantMode: types.ModeBoth,
			wantRule: types.RuleEmergencyOverride,
		},
		{
			name: "large time saving adds the drone",
			input: types.DispatchInput{
				WeatherRiskPct: 10, HarmThresholdMin: 60,
				GroundETAMin: 25, AirETAMin: 5,
			},
			wantMode: types.ModeBoth,
			wantRule: types.RuleEfficiency,
		},
		{
			name: "nothing triggers",
			input: types.DispatchInput{
				WeatherRiskPct: 10, HarmThresholdMin: 60,
				GroundETAMin: 12, AirETAMin: 5,
			},
			wantMode: types.ModeAmbulance,
			wantRule: types.RuleDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/dispatch/decision", tt.input)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
			}

			var decision types.DispatchResult
			unwrapData(t, rec, &decision)
			if decision.ResponseMode != tt.wantMode {
				t.Errorf("response_mode = %q, want %q", decision.ResponseMode, tt.wantMode)
			}
			if decision.RuleTriggered != tt.wantRule {
				t.Errorf("rule_triggered = %q, want %q", decision.RuleTriggered, tt.wantRule)
			}
		})
	}
}

func TestTriageFlow(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodPost, "/v1/triage/", types.TriageInput{
		Symptoms: []string{"trouble_breathing"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var result types.TriageResult
	unwrapData(t, rec, &result)
	if result.SeverityLevel != 3 {
		t.Errorf("severity_level = %d, want 3", result.SeverityLevel)
	}
	if !result.Escalate {
		t.Error("expected escalate_human for a red flag symptom")
	}

	rec = do(t, h, http.MethodGet, "/v1/triage/questions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("questions status = %d, want 200", rec.Code)
	}
	var questions map[string][]string
	unwrapData(t, rec, &questions)
	if len(questions["questions"]) == 0 {
		t.Error("expected follow-up questions")
	}
}

func TestCatalogMatchAgainstShippedData(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodPost, "/v1/catalog/match", handlers.CatalogMatchRequest{
		Description: "cardiac arrest",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var match types.CaseMatch
	unwrapData(t, rec, &match)
	if match.Case.CaseName != "Cardiac Arrest" {
		t.Errorf("case name = %q, want Cardiac Arrest", match.Case.CaseName)
	}
	if match.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", match.Confidence)
	}

	rec = do(t, h, http.MethodPost, "/v1/catalog/match", handlers.CatalogMatchRequest{
		Description: "alien abduction",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unmatched status = %d, want 404", rec.Code)
	}
}

func TestZonesAgainstShippedData(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodGet, "/v1/zones/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var all []types.ZoneSelection
	unwrapData(t, rec, &all)
	if len(all) != 6 {
		t.Fatalf("zones = %d, want 6", len(all))
	}

	rec = do(t, h, http.MethodGet, "/v1/zones/nearest", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("nearest status = %d, want 200", rec.Code)
	}
	var nearest types.ZoneSelection
	unwrapData(t, rec, &nearest)
	if nearest.Name != "Mosque Courtyard" {
		t.Errorf("nearest zone = %q, want Mosque Courtyard", nearest.Name)
	}
}

func TestMedicRosterAndAssignment(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodGet, "/v1/medics/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var medics []types.RosterEntry
	unwrapData(t, rec, &medics)
	if len(medics) != 15 {
		t.Fatalf("roster size = %d, want 15", len(medics))
	}

	rec = do(t, h, http.MethodPost, "/v1/medics/assignment", handlers.MedicAssignmentRequest{
		ResponseMode: "BOTH",
		Category:     "cardiac",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("assignment status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var assignment types.MedicAssignment
	unwrapData(t, rec, &assignment)
	if len(assignment.Reasoning) == 0 {
		t.Error("expected assignment reasoning")
	}
	if assignment.Matched && assignment.AssignedMedic == nil {
		t.Error("matched assignment must carry a medic")
	}

	// Ground-only mode never assigns an aerial medic.
	rec = do(t, h, http.MethodPost, "/v1/medics/assignment", handlers.MedicAssignmentRequest{
		ResponseMode: "AMBULANCE",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ground assignment status = %d, want 200", rec.Code)
	}
	unwrapData(t, rec, &assignment)
	if assignment.Matched {
		t.Error("ground-only request must not match an aerial medic")
	}
}

// TestEvalAgainstShippedData replays both reference datasets through the
// decision engine. The expected decisions in data/ were produced by the same
// rules, so the agreement rate is exact.
func TestEvalAgainstShippedData(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodPost, "/v1/eval/run", handlers.EvalRunRequest{Dataset: "all"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var result handlers.EvalRunResponse
	unwrapData(t, rec, &result)
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	for _, report := range result.Reports {
		if report.Total == 0 {
			t.Errorf("%s: empty dataset", report.Source)
		}
		if report.Mismatches != 0 {
			t.Errorf("%s: %d mismatches, want 0", report.Source, report.Mismatches)
		}
	}
}

func TestUnknownRouteAndBadJSON(t *testing.T) {
	h := newTestStack(t)

	rec := do(t, h, http.MethodGet, "/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/dispatch/decision", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", rec.Code)
	}

	var apiErr struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if apiErr.Error.Code != "validation_invalid_json" {
		t.Errorf("error code = %q, want validation_invalid_json", apiErr.Error.Code)
	}
	if apiErr.Error.RequestID == "" {
		t.Error("expected request_id in error envelope")
	}
}
