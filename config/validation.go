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

// ValidateConfig checks that every value the service cannot run without is
// present. Development and Test fall back to defaults for everything except
// the vision API key, so local runs stay low-friction; Production and CI
// require the full secret set.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"OPENAI_API_KEY": cfg.VisionAPIKey,
	}

	env := GetEnvironment()
	if env == Production || env == CI {
		required["DB_PASSWORD"] = cfg.DBPassword
		required["JWT_SECRET"] = cfg.JWTSecret
		required["GATEWAY_CLIENT_SECRET_HASH"] = cfg.GatewayClientSecretHash
	}

	for key, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", key))
		}
	}

	if cfg.VisionMaxTokens <= 0 {
		errors = append(errors, "MAX_TOKENS must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
