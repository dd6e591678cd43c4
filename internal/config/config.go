// Package config defines the shared configuration for the Freeplay CLI tools.
// Configuration is loaded once at process start and is immutable thereafter.
// It follows 12-Factor App principles by strictly separating code from
// configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// A missing required value causes the tool to exit immediately with an error
// that names every missing variable (fail fast).
package config

import (
	"log/slog"
	"strings"
	"time"

	"freeplayctl/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the configuration shared by all Freeplay CLI tools. It is
// populated once during process initialization and never modified.
type Config struct {
	// APIKey authenticates every request to the Freeplay API. Wrapped in
	// SecretString so a config dump can never leak it.
	APIKey SecretString `envconfig:"FREEPLAY_API_KEY"`

	// APIBase is the Freeplay API base URL, e.g. https://app.freeplay.ai/api.
	APIBase string `envconfig:"FREEPLAY_API_BASE" validate:"omitempty,url"`

	// ProjectID scopes dataset operations. Required by the import and delete
	// tools; the deployed-prompts tool can list projects when it is absent.
	// A --project-id flag overrides this value.
	ProjectID string `envconfig:"FREEPLAY_PROJECT_ID"`

	// HTTPTimeout is the fixed per-request timeout. There are no retries;
	// a request that exceeds this is reported as a failed batch.
	HTTPTimeout time.Duration `envconfig:"FREEPLAY_HTTP_TIMEOUT" default:"30s"`

	// LogLevel controls diagnostic output on stderr (debug/info/warn/error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// SlogLevel maps LogLevel onto a slog level. Unrecognized values fall back
// to info rather than failing startup.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
