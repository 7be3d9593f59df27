package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	if viper.IsSet("timeout") {
		if timeout := durationSetting("timeout"); timeout < 0 {
			errors = append(errors, fmt.Sprintf("timeout must not be negative, got: %v", timeout))
		}
	}

	if strings.TrimSpace(viper.GetString("launcher")) == "" {
		errors = append(errors, "launcher must not be empty")
	}

	if strings.TrimSpace(viper.GetString("build.tool")) == "" {
		errors = append(errors, "build.tool must not be empty")
	}

	if strings.TrimSpace(viper.GetString("project_root")) == "" {
		errors = append(errors, "project_root must not be empty")
	}

	switch driver := viper.GetString("history.driver"); driver {
	case HistoryJSON, HistorySQLite:
	case HistoryPostgres:
		if strings.TrimSpace(viper.GetString("history.path")) == "" {
			errors = append(errors, "history.path must hold a connection string when history.driver is \"postgres\"")
		}
	default:
		errors = append(errors, fmt.Sprintf("history.driver must be %q, %q or %q, got: %q", HistoryJSON, HistorySQLite, HistoryPostgres, driver))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
