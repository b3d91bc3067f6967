package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validDrivers = map[string]bool{
	"mongo": true, "sqlite": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if !validDrivers[c.Store.Driver] {
		errs = append(errs, fmt.Sprintf("store.driver: must be one of mongo, sqlite; got %q", c.Store.Driver))
	}
	if c.Store.Driver == "mongo" && c.Store.Mongo.URI == "" {
		errs = append(errs, "store.mongo.uri: required when driver is mongo")
	}
	if c.Store.Driver == "sqlite" && c.Store.SQLite.Path == "" {
		errs = append(errs, "store.sqlite.path: required when driver is sqlite")
	}
	if c.Store.FetchTimeout.Duration < 0 {
		errs = append(errs, "store.fetch_timeout: must not be negative")
	}
	if r := c.Store.Breaker.FailureRatio; r <= 0 || r > 1 {
		errs = append(errs, fmt.Sprintf("store.breaker.failure_ratio: must be in (0, 1], got %g", r))
	}

	if c.Cache.MovieCapacity < 0 {
		errs = append(errs, "cache.movie_capacity: must not be negative")
	}
	if c.Cache.IndexCapacity < 0 {
		errs = append(errs, "cache.index_capacity: must not be negative")
	}
	if c.Cache.UpcomingTTL.Duration < 0 || c.Cache.VenueTTL.Duration < 0 {
		errs = append(errs, "cache: ttl values must not be negative")
	}
	if c.Cache.UpcomingCapacity < 0 || c.Cache.VenueCapacity < 0 {
		errs = append(errs, "cache: lru capacities must not be negative")
	}

	if _, err := time.LoadLocation(c.Listing.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("listing.timezone: unknown zone %q", c.Listing.Timezone))
	}
	if c.Listing.SearchLimit < 0 {
		errs = append(errs, "listing.search_limit: must not be negative")
	}
	if c.Listing.MaxPageSize < 0 {
		errs = append(errs, "listing.max_page_size: must not be negative")
	}

	return errs
}
