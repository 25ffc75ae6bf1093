package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/report"
	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/internal/tmdb"
	"github.com/vmunix/postarr/pkg/title"
)

var (
	matchType    string
	matchNoCache bool
)

var matchCmd = &cobra.Command{
	Use:   "match <folder-name>",
	Short: "Resolve a folder name against TMDB and show the match",
	Example: `  postarr match "Alice in Borderland S01 [1080p]" --type tv
  postarr match "Dune (2021)"`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchType, "type", "movie", "Media type: movie or tv")
	matchCmd.Flags().BoolVar(&matchNoCache, "no-cache", false, "Bypass the search cache")
	rootCmd.AddCommand(matchCmd)
}

type matchJSON struct {
	ID         int64   `json:"tmdb_id"`
	Kind       string  `json:"type"`
	Title      string  `json:"title"`
	Date       string  `json:"date,omitempty"`
	PosterPath string  `json:"poster_path,omitempty"`
	Query      string  `json:"query"`
	Fallback   bool    `json:"fallback"`
	Similarity float64 `json:"similarity"`
}

func toMatchJSON(m *resolver.Match) matchJSON {
	return matchJSON{
		ID:         m.Result.ID,
		Kind:       m.Kind.String(),
		Title:      m.Result.DisplayTitle(),
		Date:       m.Result.Date(),
		PosterPath: m.Result.PosterPath,
		Query:      m.Query,
		Fallback:   m.Fallback,
		Similarity: m.Similarity,
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	kind, err := tmdb.ParseKind(matchType)
	if err != nil {
		return err
	}

	client, err := newTMDBClient(cfg)
	if err != nil {
		return err
	}
	searcher, closeCache, err := searcherFor(cfg, client, matchNoCache)
	if err != nil {
		return err
	}
	defer closeCache()

	name := args[0]
	m, err := resolver.New(searcher, logger).Lookup(cmd.Context(), kind, name)
	notFound := errors.Is(err, resolver.ErrNoMatch) || errors.Is(err, resolver.ErrEmptyQuery)
	if err != nil && !notFound {
		return err
	}

	out := cmd.OutOrStdout()
	info := title.Parse(name)

	if jsonOutput {
		resp := map[string]any{"folder": info}
		if m != nil {
			resp["match"] = toMatchJSON(m)
		} else {
			resp["error"] = err.Error()
		}
		return printJSON(out, resp)
	}

	printer := report.New(out)
	printer.TitleInfo(info)
	if m == nil {
		printer.NoMatch(err)
		return nil
	}
	printer.Match(m)
	return nil
}
