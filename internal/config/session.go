package config

import (
	"fmt"
	"time"
)

// DefaultSessionTTLHours keeps the session cookie for 30 days.
const DefaultSessionTTLHours = 24 * 30

// minSecretLength is the shortest accepted HMAC secret.
const minSecretLength = 32

// SessionConfig holds configuration for the session cookie.
// An empty Secret stores the plain username in the cookie; otherwise the cookie
// holds an HS256-signed token.
type SessionConfig struct {
	Secret        string `yaml:"secret,omitempty"`
	TTLHours      int    `yaml:"ttl_hours,omitempty"`
	SecureCookies bool   `yaml:"secure_cookies,omitempty"`
}

// Signed reports whether session cookies are signed.
func (c SessionConfig) Signed() bool {
	return c.Secret != ""
}

// TTL returns the session lifetime.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if c.Secret != "" && len(c.Secret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes, got: %d", minSecretLength, len(c.Secret))
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	return nil
}
