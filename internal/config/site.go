package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/jrycodes/typotrace/pkg/middleware"
)

const (
	EnvSiteDefaultLocale = "TYPOTRACE_SITE_DEFAULT_LOCALE"
	EnvSiteLocales       = "TYPOTRACE_SITE_LOCALES"
	EnvSiteStaticMaxAge  = "TYPOTRACE_SITE_STATIC_MAX_AGE"
)

// SiteConfig holds locale routing and static asset settings for the web site.
type SiteConfig struct {
	DefaultLocale string   `toml:"default_locale"`
	Locales       []string `toml:"locales"`
	StaticMaxAge  string   `toml:"static_max_age"`
}

// StaticMaxAgeDuration returns StaticMaxAge as a time.Duration.
func (c *SiteConfig) StaticMaxAgeDuration() time.Duration {
	return parseDuration(c.StaticMaxAge)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SiteConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SiteConfig) Merge(overlay *SiteConfig) {
	mergeString(&c.DefaultLocale, overlay.DefaultLocale)
	mergeString(&c.StaticMaxAge, overlay.StaticMaxAge)
	if overlay.Locales != nil {
		c.Locales = overlay.Locales
	}
}

func (c *SiteConfig) loadDefaults() {
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"en", "id"}
	}
	if c.StaticMaxAge == "" {
		c.StaticMaxAge = "1h"
	}
}

func (c *SiteConfig) loadEnv() {
	envString(EnvSiteDefaultLocale, &c.DefaultLocale)
	envString(EnvSiteStaticMaxAge, &c.StaticMaxAge)
	if v := os.Getenv(EnvSiteLocales); v != "" {
		c.Locales = middleware.SplitList(v)
	}
}

func (c *SiteConfig) validate() error {
	if !slices.Contains(c.Locales, c.DefaultLocale) {
		return fmt.Errorf("default_locale %q not in locales %v", c.DefaultLocale, c.Locales)
	}
	if d := parseDuration(c.StaticMaxAge); d < 0 {
		return fmt.Errorf("invalid static_max_age: %q", c.StaticMaxAge)
	}
	return nil
}
