package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/metadata"
)

var cacheAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the TMDB search cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

func init() {
	cachePruneCmd.Flags().BoolVar(&cacheAll, "all", false, "Remove every entry, not just expired ones")
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePrune(cmd *cobra.Command, _ []string) error {
	cache, err := metadata.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	prune := cache.Prune
	if cacheAll {
		prune = cache.Clear
	}
	n, err := prune(cmd.Context())
	if err != nil {
		return err
	}

	logger.Info("cache pruned", "path", cfg.Cache.Path, "removed", n, "all", cacheAll)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"path": cfg.Cache.Path, "removed": n})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries from %s\n", n, cfg.Cache.Path)
	return nil
}
