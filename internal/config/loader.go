// loader.go implements the configuration loading lifecycle for the CLI tools.
//
// The loading sequence is:
//  1. Load .env file via godotenv (non-fatal if absent; never overrides
//     variables already set in the OS environment).
//  2. Use envconfig to process struct tags and populate the Config struct.
//  3. Check required variables and report every missing one by name.
//  4. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
// It wraps a ConfigErrorType and an underlying error message.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load loads and validates the shared CLI configuration.
//
// It performs the following steps in order:
//  1. Loads a .env file if present (non-fatal if missing).
//  2. Processes envconfig tags to populate the Config struct.
//  3. Verifies the required variables, collecting every missing one so the
//     operator can fix them all in a single pass.
//  4. Validates value formats (URL shape of the API base).
//
// FREEPLAY_PROJECT_ID is deliberately not required here: tools that need a
// project call RequireProject after merging their --project-id flag.
func Load() (*Config, error) {
	// Step 1: Load .env file (non-fatal if absent).
	// godotenv.Load() silently succeeds if no .env file exists in the
	// working directory. It does NOT override existing environment variables.
	_ = godotenv.Load()

	// Step 2: Process envconfig tags to populate the Config struct.
	// The empty prefix "" means envconfig uses the exact tag values
	// (e.g., envconfig:"FREEPLAY_API_KEY" reads FREEPLAY_API_KEY directly).
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	// Step 3: Collect every missing required variable before failing, so a
	// first run reports the complete list instead of one variable at a time.
	var missing []string
	if !cfg.APIKey.IsSet() {
		missing = append(missing, "FREEPLAY_API_KEY")
	}
	if cfg.APIBase == "" {
		missing = append(missing, "FREEPLAY_API_BASE")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{
			Type:    ErrMissingEnv,
			Message: fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")),
		}
	}

	// Step 4: Validate the populated struct.
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	cfg.APIBase = strings.TrimSuffix(cfg.APIBase, "/")
	return &cfg, nil
}

// RequireProject returns the effective project ID, preferring the flag value
// over the FREEPLAY_PROJECT_ID environment variable. It fails with a
// ConfigError when neither is set.
func (c *Config) RequireProject(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.ProjectID != "" {
		return c.ProjectID, nil
	}
	return "", &ConfigError{
		Type:    ErrMissingEnv,
		Message: "missing required environment variables: FREEPLAY_PROJECT_ID (or pass --project-id)",
	}
}
