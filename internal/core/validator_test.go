package core

import (
	"errors"
	"testing"

	"skymedic/internal/types"
)

type testDispatchRequest struct {
	WeatherRiskPct float64 `json:"weather_risk_pct" validate:"min=0,max=100"`
	GroundETAMin   float64 `json:"ground_eta_min" validate:"required,gt=0"`
}

type testSeverityRequest struct {
	SeverityLevel int `json:"severity_level" validate:"severity_level"`
}

type testModeRequest struct {
	Mode string `json:"mode" validate:"response_mode"`
}

type testCoordRequest struct {
	Lat float64 `json:"latitude" validate:"latitude"`
	Lon float64 `json:"longitude" validate:"longitude"`
}

func TestValidationResult_IsValid(t *testing.T) {
	if !(ValidationResult{}).IsValid() {
		t.Error("expected empty result to be valid")
	}
	if (ValidationResult{Errors: []ValidationError{{Field: "x"}}}).IsValid() {
		t.Error("expected result with errors to be invalid")
	}
	if !(ValidationResult{Warnings: []string{"clamped input"}}).IsValid() {
		t.Error("expected result with only warnings to be valid")
	}
}

func TestValidateStruct_Success(t *testing.T) {
	v := NewValidator(testLogger())

	err := v.ValidateStruct(testDispatchRequest{WeatherRiskPct: 40, GroundETAMin: 25})
	if err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestValidateStruct_Failure_ReturnsAppError(t *testing.T) {
	v := NewValidator(testLogger())

	err := v.ValidateStruct(testDispatchRequest{WeatherRiskPct: 120})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T: %v", err, err)
	}
	if appErr.HTTPStatus() != 400 {
		t.Errorf("expected 400 status, got %d", appErr.HTTPStatus())
	}

	ve, ok := appErr.Details["validation_errors"]
	if !ok {
		t.Fatal("expected validation_errors key in details")
	}
	errs, ok := ve.([]ValidationError)
	if !ok {
		t.Fatalf("expected []ValidationError, got %T", ve)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 validation errors, got %d", len(errs))
	}
}

func TestValidateStruct_RequiredUsesMissingFieldCode(t *testing.T) {
	v := NewValidator(testLogger())

	err := v.ValidateStruct(testDispatchRequest{WeatherRiskPct: 10})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeValidationMissingField {
		t.Errorf("expected %s, got %s", types.ErrCodeValidationMissingField, appErr.Code)
	}
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator(testLogger())

	result := v.ValidateStructWithWarnings(testDispatchRequest{WeatherRiskPct: 10})
	if result.IsValid() {
		t.Fatal("expected invalid result")
	}
	if result.Errors[0].Field != "ground_eta_min" {
		t.Errorf("expected json field name, got %q", result.Errors[0].Field)
	}
}

func TestSeverityLevelTag(t *testing.T) {
	v := NewValidator(testLogger())

	for _, level := range []int{0, 1, 2, 3} {
		if err := v.ValidateStruct(testSeverityRequest{SeverityLevel: level}); err != nil {
			t.Errorf("expected level %d to be valid, got: %v", level, err)
		}
	}

	for _, level := range []int{4, 5, -1} {
		err := v.ValidateStruct(testSeverityRequest{SeverityLevel: level})
		if err == nil {
			t.Errorf("expected level %d to be rejected", level)
			continue
		}
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code != types.ErrCodeValidationInvalidSeverity {
			t.Errorf("expected %s for level %d, got %s",
				types.ErrCodeValidationInvalidSeverity, level, appErr.Code)
		}
	}
}

func TestResponseModeTag(t *testing.T) {
	v := NewValidator(testLogger())

	for _, mode := range []string{"AMBULANCE", "DOCTOR_DRONE", "BOTH"} {
		if err := v.ValidateStruct(testModeRequest{Mode: mode}); err != nil {
			t.Errorf("expected mode %q to be valid, got: %v", mode, err)
		}
	}

	if err := v.ValidateStruct(testModeRequest{Mode: "HELICOPTER"}); err == nil {
		t.Error("expected unknown mode to be rejected")
	}
}

func TestCoordinateTags(t *testing.T) {
	v := NewValidator(testLogger())

	if err := v.ValidateStruct(testCoordRequest{Lat: 24.77, Lon: 46.65}); err != nil {
		t.Errorf("expected valid coordinates to pass, got: %v", err)
	}

	err := v.ValidateStruct(testCoordRequest{Lat: 124.9, Lon: 46.65})
	if err == nil {
		t.Fatal("expected out-of-range latitude to be rejected")
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) && appErr.Code != types.ErrCodeValidationInvalidLat {
		t.Errorf("expected %s, got %s", types.ErrCodeValidationInvalidLat, appErr.Code)
	}

	err = v.ValidateStruct(testCoordRequest{Lat: 24.77, Lon: 196.0})
	if err == nil {
		t.Fatal("expected out-of-range longitude to be rejected")
	}
	if errors.As(err, &appErr) && appErr.Code != types.ErrCodeValidationInvalidLon {
		t.Errorf("expected %s, got %s", types.ErrCodeValidationInvalidLon, appErr.Code)
	}
}
