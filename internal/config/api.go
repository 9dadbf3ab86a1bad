package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jrycodes/typotrace/pkg/formatting"
	"github.com/jrycodes/typotrace/pkg/middleware"
)

const (
	EnvAPIBasePath        = "TYPOTRACE_API_BASE_PATH"
	EnvAPIMaxUploadSize   = "TYPOTRACE_API_MAX_UPLOAD_SIZE"
	EnvAPISessionTTL      = "TYPOTRACE_API_SESSION_TTL"
	EnvAPIJanitorInterval = "TYPOTRACE_API_JANITOR_INTERVAL"
	EnvAPIMaxSessions     = "TYPOTRACE_API_MAX_SESSIONS"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "TYPOTRACE_CORS_ENABLED",
	Origins:          "TYPOTRACE_CORS_ORIGINS",
	AllowedMethods:   "TYPOTRACE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "TYPOTRACE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "TYPOTRACE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "TYPOTRACE_CORS_MAX_AGE",
}

// APIConfig holds API routing, upload limits, session retention, and CORS settings.
type APIConfig struct {
	BasePath        string                `toml:"base_path"`
	MaxUploadSize   string                `toml:"max_upload_size"`
	SessionTTL      string                `toml:"session_ttl"`
	JanitorInterval string                `toml:"janitor_interval"`
	MaxSessions     int                   `toml:"max_sessions"`
	CORS            middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns MaxUploadSize as a byte count.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// SessionTTLDuration returns SessionTTL as a time.Duration.
func (c *APIConfig) SessionTTLDuration() time.Duration {
	return parseDuration(c.SessionTTL)
}

// JanitorIntervalDuration returns JanitorInterval as a time.Duration.
func (c *APIConfig) JanitorIntervalDuration() time.Duration {
	return parseDuration(c.JanitorInterval)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	mergeString(&c.SessionTTL, overlay.SessionTTL)
	mergeString(&c.JanitorInterval, overlay.JanitorInterval)
	if overlay.MaxSessions != 0 {
		c.MaxSessions = overlay.MaxSessions
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
	if c.SessionTTL == "" {
		c.SessionTTL = "30m"
	}
	if c.JanitorInterval == "" {
		c.JanitorInterval = "1m"
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 256
	}
}

func (c *APIConfig) loadEnv() {
	envString(EnvAPIBasePath, &c.BasePath)
	envString(EnvAPIMaxUploadSize, &c.MaxUploadSize)
	envString(EnvAPISessionTTL, &c.SessionTTL)
	envString(EnvAPIJanitorInterval, &c.JanitorInterval)
	if v := os.Getenv(EnvAPIMaxSessions); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSessions = n
		}
	}
}

func (c *APIConfig) validate() error {
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size: %q", c.MaxUploadSize)
	}
	if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid session_ttl: %q", c.SessionTTL)
	}
	if d, err := time.ParseDuration(c.JanitorInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid janitor_interval: %q", c.JanitorInterval)
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("invalid max_sessions: %d", c.MaxSessions)
	}
	return nil
}
