// Package config defines the process configuration for the SkyMedic
// dispatch service. Configuration is loaded once at startup and is immutable
// thereafter, following 12-Factor principles: values come from the OS
// environment, optionally seeded by a .env file for local development.
//
// Any missing required value or invalid format fails startup immediately.
package config

import "time"

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// specific subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"skymedic-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Domain configurations
	Server   ServerConfig
	Data     DataConfig
	Roster   RosterConfig
	Dispatch DispatchConfig
	Fleet    FleetConfig
	Security SecurityConfig

	// Build metadata (injected via ldflags, not env)
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// DataConfig locates the reference data files.
type DataConfig struct {
	Dir string `envconfig:"DATA_DIR" default:"data" validate:"required"`
}

// RosterConfig controls deterministic roster generation.
type RosterConfig struct {
	Seed int64 `envconfig:"ROSTER_SEED" default:"42"`
	Size int   `envconfig:"ROSTER_SIZE" default:"15" validate:"min=1,max=500"`
}

// DispatchConfig tunes the decision thresholds. The defaults are the
// canonical operational values; change them only with medical direction
// sign-off.
type DispatchConfig struct {
	WeatherRiskThresholdPct float64 `envconfig:"WEATHER_RISK_THRESHOLD_PCT" default:"35" validate:"min=0,max=100"`
	EfficiencyDeltaMin      float64 `envconfig:"EFFICIENCY_DELTA_MIN" default:"10" validate:"min=0"`
}

// FleetConfig holds unit cruise speeds used for ETA estimates.
type FleetConfig struct {
	AerialSpeedKmh float64 `envconfig:"AERIAL_SPEED_KMH" default:"120" validate:"gt=0"`
	GroundSpeedKmh float64 `envconfig:"GROUND_SPEED_KMH" default:"40" validate:"gt=0"`
}

// SecurityConfig holds CORS settings for the browser console.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// BuildInfo holds build-time metadata injected via ldflags. These values are
// NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
