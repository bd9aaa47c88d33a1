// Package config provides configuration loading and validation for the network server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultPort         = 8080
	DefaultDemoUser     = "samlatif"
	DefaultFeaturedUser = "samlatif"
)

// DefaultCORSOrigins are the front-ends allowed to read CV payloads with credentials.
var DefaultCORSOrigins = []string{
	"https://samlatif.uk",
	"https://react.samlatif.uk",
	"https://network.samlatif.uk",
	"http://localhost:3000",
	"http://localhost:5173",
}

// Config represents the server configuration. It can be loaded from a YAML
// file; environment variables override file values and CLI flags override both.
type Config struct {
	Port        int    `yaml:"port,omitempty"`
	DatabaseURL string `yaml:"database_url,omitempty"` // PostgreSQL connection URL
	CVDataFile  string `yaml:"cv_data_file,omitempty"` // Shared dataset; embedded demo data when empty

	// DemoUser is the acting user when a request carries no session cookie.
	DemoUser string `yaml:"demo_user,omitempty"`
	// FeaturedUser owns the shared dataset.
	FeaturedUser string `yaml:"featured_user,omitempty"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins,omitempty"`

	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `yaml:"json,omitempty"`
	Debug bool `yaml:"debug,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Port:               DefaultPort,
		DemoUser:           DefaultDemoUser,
		FeaturedUser:       DefaultFeaturedUser,
		CORSAllowedOrigins: append([]string(nil), DefaultCORSOrigins...),
		Session: SessionConfig{
			TTLHours: DefaultSessionTTLHours,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the environment, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.DatabaseURL = getEnvString("DATABASE_URL", c.DatabaseURL)
	c.CVDataFile = getEnvString("CV_DATA_FILE", c.CVDataFile)
	c.DemoUser = getEnvString("DEMO_USER", c.DemoUser)
	c.FeaturedUser = getEnvString("FEATURED_USER", c.FeaturedUser)
	if origins := getEnvString("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}

	c.Session.Secret = getEnvString("SESSION_SECRET", c.Session.Secret)
	c.Session.TTLHours = getEnvInt("SESSION_TTL_HOURS", c.Session.TTLHours)
	c.Session.SecureCookies = getEnvBool("SECURE_COOKIES", c.Session.SecureCookies)

	c.Log.JSON = getEnvBool("LOG_JSON", c.Log.JSON)
	c.Log.Debug = getEnvBool("LOG_DEBUG", c.Log.Debug)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (set DATABASE_URL)")
	}
	if c.CVDataFile != "" {
		if _, err := os.Stat(c.CVDataFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: cv data file not found: %s", c.CVDataFile)
		}
	}
	if strings.TrimSpace(c.DemoUser) == "" {
		return fmt.Errorf("config error: 'demo_user' must not be empty")
	}
	return c.Session.normalize()
}

// IsAllowedOrigin reports whether origin is in the CORS allow-list.
func (c *Config) IsAllowedOrigin(origin string) bool {
	for _, allowed := range c.CORSAllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
