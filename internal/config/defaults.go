// Package config provides default configuration values for retint.
package config

import (
	"time"
)

// Default configuration constants
const (
	defaultQueryTimeoutSec = 30 // seconds

	defaultDebounceWindowMs = 500 // milliseconds
)

// getDefaultLogDir returns the default log directory, falls back to
// empty string on error.
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values for retint.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConnections: 1,
			QueryTimeout:   time.Second * defaultQueryTimeoutSec,
		},
		Engine: EngineConfig{
			DebounceWindow: time.Millisecond * defaultDebounceWindowMs,
			TargetOrigin:   "",
		},
		Theme: ThemeConfig{
			Defaults: map[string]string{},
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "text", // text or json
			LogDir:        getDefaultLogDir(),
			EnableFileLog: false,
		},
	}
}
