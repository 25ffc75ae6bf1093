package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/config"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	jsonOutput bool
)

// Set by PersistentPreRunE for commands that need them.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// skipConfig marks commands that must run without a valid config file.
const skipConfig = "skip-config"

var rootCmd = &cobra.Command{
	Use:   "postarr",
	Short: "Keep a media library tidy and fetch TMDB posters",
	Long: `postarr - media library maintenance

Prunes stray .txt and .jpg files from title folders and downloads
poster.jpg for every movie or series folder from The Movie Database.

Set TMDB_API_KEY in the environment or in a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("postarr {{.Version}}\n")
}

func setup(cmd *cobra.Command) error {
	if err := loadDotEnv(".env"); err != nil {
		return err
	}

	if cmd.Annotations[skipConfig] == "true" {
		logger = newLogger(cmd.ErrOrStderr(), logLevel)
		return nil
	}

	c, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger = newLogger(cmd.ErrOrStderr(), level)
	return nil
}

// loadDotEnv loads KEY=VALUE pairs from path if it exists.
// Variables already present in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig loads path, or the discovered config when path is empty.
// With no config anywhere, defaults plus the environment are used.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	return slog.New(handler).With("run_id", uuid.NewString())
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
