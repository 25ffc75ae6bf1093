// internal/config/validate.go
package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPosterSizes = map[string]bool{
	"w92": true, "w154": true, "w185": true, "w342": true, "w500": true, "w780": true, "original": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.TMDB.PosterSize != "" && !validPosterSizes[c.TMDB.PosterSize] {
		errs = append(errs, fmt.Sprintf("tmdb.poster_size: must be one of w92, w154, w185, w342, w500, w780, original; got %q", c.TMDB.PosterSize))
	}
	if c.TMDB.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.timeout: must not be negative, got %s", c.TMDB.Timeout))
	}
	if c.TMDB.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.rate_limit: must not be negative, got %g", c.TMDB.RateLimit))
	}

	if c.Cache.Enabled {
		if c.Cache.Path == "" {
			errs = append(errs, "cache.path: required when cache is enabled")
		}
		if c.Cache.TTL < 0 {
			errs = append(errs, fmt.Sprintf("cache.ttl: must not be negative, got %s", c.Cache.TTL))
		}
	}

	if c.Libraries.Movies.Root != "" && c.Libraries.Movies.Root == c.Libraries.Series.Root {
		errs = append(errs, "libraries: movies and series must use different roots")
	}

	return errs
}
