package config

import "strings"

// GoogleAuthConfig contains the Google sign-in client configuration. When
// ClientID is empty, federated login falls back to sending the raw ID token
// to the backend without local verification.
type GoogleAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/google/callback"`
	Issuer       string `env:"ISSUER"       envDefault:"https://accounts.google.com"`
}

// Sanitize normalises the Google sign-in configuration.
func (c *GoogleAuthConfig) Sanitize() {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.Issuer = strings.TrimSuffix(strings.TrimSpace(c.Issuer), "/")
	if c.Issuer == "" {
		c.Issuer = "https://accounts.google.com"
	}
}

// Enabled reports whether local ID token verification is configured.
func (c *GoogleAuthConfig) Enabled() bool {
	return c.ClientID != ""
}
