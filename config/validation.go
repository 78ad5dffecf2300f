package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the current
// environment. Development and test fall back to defaults; production and
// CI must provide every sensitive value explicitly.
func ValidateConfig(cfg *Config) error {
	var problems []string

	if cfg.ServerPort == "" {
		problems = append(problems, "server port is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		problems = append(problems, "database host, port and name are required")
	}

	if IsProduction() || IsCI() {
		if cfg.JWTSecret == "" {
			problems = append(problems, "JWT secret is required")
		}
		if cfg.DBPassword == "" {
			problems = append(problems, "database password is required")
		}
	}

	if cfg.PageSize < 1 {
		problems = append(problems, "page size must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(problems, "\n"))
	}

	return nil
}
