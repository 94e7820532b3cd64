package core

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"skymedic/internal/types"
)

// Validator wraps go-playground/validator with domain-specific rules and
// translates field errors into the service's AppError vocabulary.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// ValidationError describes a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult aggregates field errors and non-blocking warnings from a
// single validation pass.
type ValidationResult struct {
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// IsValid reports whether the validation pass produced no errors. Warnings
// do not affect validity.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// NewValidator creates a new Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	// Report fields by their JSON name so error details match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// severity_level: integer severity on the 0 (none) to 3 (critical)
	// scale shared by triage results and the reference catalog.
	_ = v.RegisterValidation("severity_level", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n >= 0 && n <= 3
	})

	// response_mode: one of the dispatch decision outcomes.
	_ = v.RegisterValidation("response_mode", func(fl validator.FieldLevel) bool {
		switch types.ResponseMode(fl.Field().String()) {
		case types.ModeAmbulance, types.ModeDoctorDrone, types.ModeBoth:
			return true
		default:
			return false
		}
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct validates the struct according to its `validate` tags.
// On failure it returns a *types.AppError whose code reflects the first
// field error and whose details carry the full list of field errors under
// the "validation_errors" key. On success it returns nil.
func (v *Validator) ValidateStruct(s interface{}) error {
	result := v.ValidateStructWithWarnings(s)
	if result.IsValid() {
		return nil
	}

	first := result.Errors[0]
	return types.NewAppErrorWithDetails(
		types.ErrorCode(first.Code),
		"request validation failed",
		nil,
		map[string]any{
			"validation_errors": result.Errors,
		},
	)
}

// ValidateStructWithWarnings validates the struct and returns the full
// ValidationResult instead of collapsing it into an error. Handlers that
// surface warnings alongside a valid request use this form.
func (v *Validator) ValidateStructWithWarnings(s interface{}) ValidationResult {
	var result ValidationResult

	err := v.validate.Struct(s)
	if err == nil {
		return result
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-field errors (e.g., passing a non-struct) indicate a
		// programming error at the call site.
		v.logger.Error("validator received invalid input", "error", err)
		result.Errors = append(result.Errors, ValidationError{
			Field:   "",
			Code:    string(types.ErrCodeValidationFailed),
			Message: "invalid request structure",
		})
		return result
	}

	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    string(tagToErrorCode(fe.Tag())),
			Message: fieldErrorMessage(fe),
		})
	}

	return result
}

// tagToErrorCode maps a validator tag to the service error code vocabulary.
func tagToErrorCode(tag string) types.ErrorCode {
	switch tag {
	case "required":
		return types.ErrCodeValidationMissingField
	case "latitude":
		return types.ErrCodeValidationInvalidLat
	case "longitude":
		return types.ErrCodeValidationInvalidLon
	case "severity_level":
		return types.ErrCodeValidationInvalidSeverity
	default:
		return types.ErrCodeValidationFailed
	}
}

// fieldErrorMessage renders a human-readable message for one field error.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude", fe.Field())
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude", fe.Field())
	case "severity_level":
		return fmt.Sprintf("%s must be between 0 and 3", fe.Field())
	case "response_mode":
		return fmt.Sprintf("%s must be one of AMBULANCE, DOCTOR_DRONE, BOTH", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on rule %q", fe.Field(), fe.Tag())
	}
}
