package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvTypoTraceEnv             = "TYPOTRACE_ENV"
	EnvTypoTraceShutdownTimeout = "TYPOTRACE_SHUTDOWN_TIMEOUT"
	EnvTypoTraceVersion         = "TYPOTRACE_VERSION"
)

// ClientEnv names the environment overrides for the remote service client.
var ClientEnv = &typocheck.Env{
	BaseURL:      "TYPOTRACE_CLIENT_BASE_URL",
	Timeout:      "TYPOTRACE_CLIENT_TIMEOUT",
	PollInterval: "TYPOTRACE_CLIENT_POLL_INTERVAL",
}

var storageEnv = &storage.Env{
	Provider:         "TYPOTRACE_STORAGE_PROVIDER",
	Root:             "TYPOTRACE_STORAGE_ROOT",
	ContainerName:    "TYPOTRACE_STORAGE_CONTAINER_NAME",
	ConnectionString: "TYPOTRACE_STORAGE_CONNECTION_STRING",
	Bucket:           "TYPOTRACE_STORAGE_BUCKET",
	Region:           "TYPOTRACE_STORAGE_REGION",
	Prefix:           "TYPOTRACE_STORAGE_PREFIX",
	Endpoint:         "TYPOTRACE_STORAGE_ENDPOINT",
	UsePathStyle:     "TYPOTRACE_STORAGE_USE_PATH_STYLE",
}

// Config is the root configuration for the TypoTrace service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Client          typocheck.Config `toml:"client"`
	Storage         storage.Config   `toml:"storage"`
	Site            SiteConfig       `toml:"site"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the TYPOTRACE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTypoTraceEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return parseDuration(c.ShutdownTimeout)
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Client.Merge(&overlay.Client)
	c.Storage.Merge(&overlay.Storage)
	c.Site.Merge(&overlay.Site)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Client.Finalize(ClientEnv); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Site.Finalize(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envString(EnvTypoTraceShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvTypoTraceVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTypoTraceEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
