package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vmunix/postarr/internal/config"
	"github.com/vmunix/postarr/internal/metadata"
	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/internal/tmdb"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTMDBClient(c *config.Config) (*tmdb.Client, error) {
	if err := c.RequireAPIKey(); err != nil {
		return nil, err
	}
	return tmdb.NewClient(c.TMDB.APIKey,
		tmdb.WithBaseURL(c.TMDB.BaseURL),
		tmdb.WithImageBaseURL(c.TMDB.ImageBaseURL),
		tmdb.WithHTTPClient(&http.Client{Timeout: c.TMDB.Timeout}),
		tmdb.WithRateLimit(c.TMDB.RateLimit),
		tmdb.WithLogger(logger),
	), nil
}

// searcherFor wraps client in the SQLite search cache unless caching is off.
// The returned close func is always safe to call.
func searcherFor(c *config.Config, client *tmdb.Client, noCache bool) (resolver.Searcher, func(), error) {
	if noCache || !c.Cache.Enabled {
		return client, func() {}, nil
	}

	cache, err := metadata.Open(c.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	closeFn := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close cache", "error", err)
		}
	}
	return metadata.NewCachedSearcher(client, cache, c.Cache.TTL, logger), closeFn, nil
}

// rootArg returns args[0] if given, else the configured fallback.
func rootArg(args []string, configured, name string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if configured == "" {
		return "", fmt.Errorf("no %s root: pass one or set libraries.%s.root", name, name)
	}
	return configured, nil
}
