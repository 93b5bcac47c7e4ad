package config

import "time"

// SessionConfig tunes the session store's silent-refresh behavior.
type SessionConfig struct {
	// RefreshInterval is the background refresh cadence. The backend's
	// access tokens live 60 minutes; refreshing at 50 leaves margin.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"50m"`

	// RefreshThrottle is the minimum gap between refresh attempts.
	RefreshThrottle time.Duration `env:"REFRESH_THROTTLE" envDefault:"10s"`
}

// Sanitize enforces safe defaults on the refresh tuning.
func (c *SessionConfig) Sanitize() {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 50 * time.Minute
	}
	if c.RefreshThrottle <= 0 {
		c.RefreshThrottle = 10 * time.Second
	}
}
