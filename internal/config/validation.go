// Package config provides validation utilities for configuration
// values.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/domain/palette"
)

const maxDebounceWindow = 10 * time.Second

// validateConfig performs comprehensive validation of configuration
// values.
func validateConfig(config *Config) error {
	var validationErrors []string

	if config.Database.MaxConnections < 1 {
		validationErrors = append(validationErrors, "database.max_connections must be at least 1")
	}
	if config.Database.QueryTimeout < 0 {
		validationErrors = append(validationErrors, "database.query_timeout must be non-negative")
	}

	if config.Engine.DebounceWindow < 0 {
		validationErrors = append(validationErrors, "engine.debounce_window must be non-negative")
	}
	if config.Engine.DebounceWindow > maxDebounceWindow {
		validationErrors = append(validationErrors, fmt.Sprintf("engine.debounce_window must be at most %s", maxDebounceWindow))
	}

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}

	switch config.Logging.Format {
	case "text", "json":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: text, json (got: %s)", config.Logging.Format))
	}

	for key, value := range config.Theme.Defaults {
		if !palette.IsManaged(entity.CSSPropertyName(key)) {
			validationErrors = append(validationErrors, fmt.Sprintf("theme.defaults: %s is not a managed property", key))
			continue
		}
		if !palette.IsValidColor(value) {
			validationErrors = append(validationErrors, fmt.Sprintf("theme.defaults: %s has invalid color %q", key, value))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}
