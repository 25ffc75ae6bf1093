// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// APIKeyEnv is the environment variable consulted when tmdb.api_key is empty.
const APIKeyEnv = "TMDB_API_KEY"

// Config is the root configuration structure.
type Config struct {
	Libraries LibrariesConfig `toml:"libraries"`
	TMDB      TMDBConfig      `toml:"tmdb"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
}

type LibrariesConfig struct {
	Movies LibraryConfig `toml:"movies"`
	Series LibraryConfig `toml:"series"`
}

type LibraryConfig struct {
	Root string `toml:"root"`
}

type TMDBConfig struct {
	APIKey       string        `toml:"api_key"`
	BaseURL      string        `toml:"base_url"`
	ImageBaseURL string        `toml:"image_base_url"`
	PosterSize   string        `toml:"poster_size"`
	Timeout      time.Duration `toml:"timeout"`
	RateLimit    float64       `toml:"rate_limit"` // requests per second
}

type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	Path    string        `toml:"path"`
	TTL     time.Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns a config with every default applied and the API key taken
// from the environment. Used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Cache: CacheConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads, substitutes, parses, and validates the configuration file.
// Returns a *ConfigError for unresolved variables or validation failures.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := Config{
		Cache: CacheConfig{Enabled: true},
	}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.TMDB.APIKey == "" {
		c.TMDB.APIKey = os.Getenv(APIKeyEnv)
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = "https://image.tmdb.org/t/p"
	}
	if c.TMDB.PosterSize == "" {
		c.TMDB.PosterSize = "original"
	}
	if c.TMDB.RateLimit == 0 {
		c.TMDB.RateLimit = 40
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath()
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 7 * 24 * time.Hour
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// RequireAPIKey returns an error naming the env var if no TMDB key is set.
func (c *Config) RequireAPIKey() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB API key not set: export %s or set tmdb.api_key", APIKeyEnv)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
// Unset variables without a default are left in place and returned as missing.
// For the :- form, an empty value counts as unset.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name := parts[1]
		hasDefault := len(match) > len(name)+3 // longer than ${NAME}

		value, ok := os.LookupEnv(name)
		if hasDefault {
			if !ok || value == "" {
				return parts[2]
			}
			return value
		}
		if !ok {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return match
		}
		return value
	})

	return result, missing
}
