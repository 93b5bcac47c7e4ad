package config

import (
	"strings"
	"time"
)

// APIConfig contains the clinic backend endpoint configuration.
type APIConfig struct {
	// BaseURL is the root of the clinic backend, e.g. https://api.clinic.example.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// AuthPath is where the accounts app is mounted on the backend.
	AuthPath string `env:"AUTH_PATH" envDefault:"/auth"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// UserAgent identifies this client to the backend.
	UserAgent string `env:"USER_AGENT" envDefault:"sajilocms-go"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.AuthPath == "" {
		c.AuthPath = "/auth"
	}
	if !strings.HasPrefix(c.AuthPath, "/") {
		c.AuthPath = "/" + c.AuthPath
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = "sajilocms-go"
	}
}
