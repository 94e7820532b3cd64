package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/dispatch"
	"skymedic/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeDispatchRouter() http.Handler {
	h := NewDispatchHandler(dispatch.DefaultThresholds(), testLogger())
	r := chi.NewRouter()
	r.Route("/v1/dispatch", h.RegisterRoutes)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) *types.ResponseMeta {
	t.Helper()

	var envelope struct {
		Data json.RawMessage     `json:"data"`
		Meta *types.ResponseMeta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(envelope.Data, dst); err != nil {
			t.Fatalf("invalid data payload: %v", err)
		}
	}
	return envelope.Meta
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	return envelope.Error.Code
}

func TestHandleDecide_SafetyFilter(t *testing.T) {
	router := makeDispatchRouter()

	rec := postJSON(t, router, "/v1/dispatch/decision", types.DispatchInput{
		WeatherRiskPct:   50,
		HarmThresholdMin: 30,
		GroundETAMin:     12,
		AirETAMin:        5,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result types.DispatchResult
	meta := decodeData(t, rec, &result)

	if result.ResponseMode != types.ModeAmbulance {
		t.Errorf("expected AMBULANCE, got %s", result.ResponseMode)
	}
	if result.RuleTriggered != types.RuleSafetyFilter {
		t.Errorf("expected SAFETY_FILTER, got %s", result.RuleTriggered)
	}
	if meta != nil {
		t.Errorf("expected no warnings for valid input, got %v", meta.Warnings)
	}
}

func TestHandleDecide_EmergencyOverride(t *testing.T) {
	router := makeDispatchRouter()

	rec := postJSON(t, router, "/v1/dispatch/decision", types.DispatchInput{
		WeatherRiskPct:   20,
		HarmThresholdMin: 10,
		GroundETAMin:     18,
		AirETAMin:        6,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result types.DispatchResult
	decodeData(t, rec, &result)

	if result.ResponseMode != types.ModeBoth {
		t.Errorf("expected BOTH, got %s", result.ResponseMode)
	}
	if result.RuleTriggered != types.RuleEmergencyOverride {
		t.Errorf("expected EMERGENCY_OVERRIDE, got %s", result.RuleTriggered)
	}
}

func TestHandleDecide_WarningsInMeta(t *testing.T) {
	router := makeDispatchRouter()

	rec := postJSON(t, router, "/v1/dispatch/decision", types.DispatchInput{
		WeatherRiskPct:   140,
		HarmThresholdMin: 30,
		GroundETAMin:     12,
		AirETAMin:        5,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("out-of-range input must not be rejected, got %d", rec.Code)
	}

	meta := decodeData(t, rec, nil)
	if meta == nil || len(meta.Warnings) == 0 {
		t.Fatal("expected advisory warnings for out-of-range weather risk")
	}
}

func TestHandleDecide_MalformedBody(t *testing.T) {
	router := makeDispatchRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/dispatch/decision",
		bytes.NewReader([]byte(`{"weather_risk_pct": `)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if got := errorCode(t, rec); got != string(types.ErrCodeValidationInvalidJSON) {
		t.Errorf("expected validation_invalid_json, got %q", got)
	}
}

func TestHandleDecide_CustomThresholds(t *testing.T) {
	h := NewDispatchHandler(dispatch.Thresholds{
		WeatherRiskPct:     80,
		EfficiencyDeltaMin: 10,
	}, testLogger())
	r := chi.NewRouter()
	r.Route("/v1/dispatch", h.RegisterRoutes)

	// 50% weather risk is unsafe under default thresholds but fine at 80.
	rec := postJSON(t, r, "/v1/dispatch/decision", types.DispatchInput{
		WeatherRiskPct:   50,
		HarmThresholdMin: 30,
		GroundETAMin:     12,
		AirETAMin:        5,
	})

	var result types.DispatchResult
	decodeData(t, rec, &result)

	if result.RuleTriggered == types.RuleSafetyFilter {
		t.Error("expected raised weather bar to bypass the safety filter")
	}
}
