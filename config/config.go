package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: backend API endpoint configuration
//   - auth.go: Google sign-in configuration
//   - cache.go: durable credential cache configuration
//   - session.go: session refresh tuning
//   - observability.go: logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend API endpoint configuration.
	API APIConfig `envPrefix:"API_"`

	// Google sign-in configuration.
	GoogleAuth GoogleAuthConfig `envPrefix:"GOOGLE_AUTH_"`

	// Durable credential cache configuration.
	Cache CacheConfig `envPrefix:"CACHE_"`

	// Session refresh tuning.
	Session SessionConfig `envPrefix:"SESSION_"`

	// Observability configuration.
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.GoogleAuth.Sanitize()
	c.Cache.Sanitize()
	c.Session.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
