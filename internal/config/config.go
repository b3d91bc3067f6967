// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Listing ListingConfig `toml:"listing"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type StoreConfig struct {
	Driver       string        `toml:"driver"` // mongo or sqlite
	FetchTimeout Duration      `toml:"fetch_timeout"`
	Mongo        MongoConfig   `toml:"mongo"`
	SQLite       SQLiteConfig  `toml:"sqlite"`
	Breaker      BreakerConfig `toml:"breaker"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type SQLiteConfig struct {
	Path     string `toml:"path"`
	Fixtures string `toml:"fixtures"` // optional JSON file loaded at startup
}

type BreakerConfig struct {
	Enabled      bool     `toml:"enabled"`
	MaxRequests  uint32   `toml:"max_requests"`
	Interval     Duration `toml:"interval"`
	Timeout      Duration `toml:"timeout"`
	FailureRatio float64  `toml:"failure_ratio"`
	MinRequests  uint32   `toml:"min_requests"`
}

type CacheConfig struct {
	MovieCapacity    int      `toml:"movie_capacity"`
	IndexCapacity    int      `toml:"index_capacity"`
	UpcomingTTL      Duration `toml:"upcoming_ttl"`
	UpcomingCapacity int      `toml:"upcoming_capacity"`
	VenueTTL         Duration `toml:"venue_ttl"`
	VenueCapacity    int      `toml:"venue_capacity"`
}

type ListingConfig struct {
	Timezone    string `toml:"timezone"`
	SearchLimit int    `toml:"search_limit"`
	MaxPageSize int    `toml:"max_page_size"`
}

// Duration is a time.Duration written as a Go duration string ("5m", "1h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Location loads the configured listings time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Listing.Timezone)
	if err != nil {
		return nil, fmt.Errorf("listing.timezone: %w", err)
	}
	return loc, nil
}

// Load reads, substitutes, decodes and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and decodes the configuration file, applying
// defaults but skipping Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Config{Store: StoreConfig{Breaker: BreakerConfig{Enabled: true}}}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Store: StoreConfig{Breaker: BreakerConfig{Enabled: true}}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "mongo"
	}
	if c.Store.FetchTimeout.Duration == 0 {
		c.Store.FetchTimeout.Duration = 30 * time.Second
	}
	if c.Store.Mongo.Database == "" {
		c.Store.Mongo.Database = "movies"
	}
	if c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = "./data/vkine.db"
	}
	b := &c.Store.Breaker
	if b.MaxRequests == 0 {
		b.MaxRequests = 3
	}
	if b.Interval.Duration == 0 {
		b.Interval.Duration = time.Minute
	}
	if b.Timeout.Duration == 0 {
		b.Timeout.Duration = 30 * time.Second
	}
	if b.FailureRatio == 0 {
		b.FailureRatio = 0.6
	}
	if b.MinRequests == 0 {
		b.MinRequests = 10
	}

	if c.Cache.MovieCapacity == 0 {
		c.Cache.MovieCapacity = 1000
	}
	if c.Cache.IndexCapacity == 0 {
		c.Cache.IndexCapacity = 1000
	}
	if c.Cache.UpcomingTTL.Duration == 0 {
		c.Cache.UpcomingTTL.Duration = 5 * time.Minute
	}
	if c.Cache.UpcomingCapacity == 0 {
		c.Cache.UpcomingCapacity = 256
	}
	if c.Cache.VenueTTL.Duration == 0 {
		c.Cache.VenueTTL.Duration = time.Hour
	}
	if c.Cache.VenueCapacity == 0 {
		c.Cache.VenueCapacity = 1024
	}

	if c.Listing.Timezone == "" {
		c.Listing.Timezone = "Europe/Prague"
	}
	if c.Listing.SearchLimit == 0 {
		c.Listing.SearchLimit = 50
	}
	if c.Listing.MaxPageSize == 0 {
		c.Listing.MaxPageSize = 200
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references in content. Unresolved
// references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}

// IsConfigError reports whether err is a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
