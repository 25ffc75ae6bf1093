package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// WriteDefault writes the commented starter config to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Encode writes c as TOML with the API key masked.
func (c *Config) Encode(w io.Writer) error {
	shown := *c
	if shown.TMDB.APIKey != "" {
		shown.TMDB.APIKey = "********"
	}
	return toml.NewEncoder(w).Encode(shown)
}
