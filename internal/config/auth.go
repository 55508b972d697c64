package config

import (
	"fmt"
	"time"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC signing secret for identity tokens.
	JWTSecret string
	// TokenTTL is the lifetime of issued identity tokens and sessions.
	TokenTTL time.Duration
}

// LoadAuthConfigFromEnv loads authentication configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret: GetEnv("JWT_SECRET", "user-center-dev-secret"),
		TokenTTL:  GetEnvDuration("TOKEN_TTL", 24*time.Hour),
	}
}

// Validate validates authentication configuration.
func (c AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be greater than 0")
	}
	return nil
}
