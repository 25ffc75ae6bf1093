package main

import (
	"github.com/spf13/cobra"

	"github.com/vmunix/postarr/internal/posters"
	"github.com/vmunix/postarr/internal/report"
	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/internal/tmdb"
)

var (
	postersDryRun       bool
	postersSkipExisting bool
	postersNoCache      bool
)

var postersCmd = &cobra.Command{
	Use:   "posters",
	Short: "Download TMDB posters into title folders",
}

var postersMoviesCmd = &cobra.Command{
	Use:   "movies [root]",
	Short: "Fetch posters for a movie library (movie search, then TV)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := rootArg(args, cfg.Libraries.Movies.Root, "movies")
		if err != nil {
			return err
		}
		return runPosters(cmd, root, []tmdb.MediaKind{tmdb.KindMovie, tmdb.KindTV})
	},
}

var postersSeriesCmd = &cobra.Command{
	Use:   "series [root]",
	Short: "Fetch posters for a series library (TV search)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := rootArg(args, cfg.Libraries.Series.Root, "series")
		if err != nil {
			return err
		}
		return runPosters(cmd, root, []tmdb.MediaKind{tmdb.KindTV})
	},
}

func init() {
	for _, c := range []*cobra.Command{postersMoviesCmd, postersSeriesCmd} {
		c.Flags().BoolVar(&postersDryRun, "dry-run", false, "Resolve titles but write nothing")
		c.Flags().BoolVar(&postersSkipExisting, "skip-existing", false, "Skip folders that already have poster.jpg")
		c.Flags().BoolVar(&postersNoCache, "no-cache", false, "Bypass the search cache")
		postersCmd.AddCommand(c)
	}
	rootCmd.AddCommand(postersCmd)
}

func runPosters(cmd *cobra.Command, root string, kinds []tmdb.MediaKind) error {
	client, err := newTMDBClient(cfg)
	if err != nil {
		return err
	}

	searcher, closeCache, err := searcherFor(cfg, client, postersNoCache)
	if err != nil {
		return err
	}
	defer closeCache()

	fetcher := posters.New(resolver.New(searcher, logger), client, posters.Options{
		Kinds:        kinds,
		PosterSize:   cfg.TMDB.PosterSize,
		DryRun:       postersDryRun,
		SkipExisting: postersSkipExisting,
	}, logger)

	out := cmd.OutOrStdout()
	printer := report.New(out)

	var results []posterResultJSON
	onResult := printer.PosterResult
	if jsonOutput {
		onResult = func(r posters.Result) {
			results = append(results, toPosterResultJSON(r))
		}
	}

	stats, err := fetcher.Run(cmd.Context(), root, onResult)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out, map[string]any{
			"root":    root,
			"dry_run": postersDryRun,
			"results": results,
			"stats":   stats,
		})
	}

	printer.PosterSummary(stats)
	return nil
}

type posterResultJSON struct {
	Folder string         `json:"folder"`
	Title  string         `json:"title"`
	Status posters.Status `json:"status"`
	Match  *matchJSON     `json:"match,omitempty"`
	URL    string         `json:"url,omitempty"`
	Bytes  int64          `json:"bytes,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func toPosterResultJSON(r posters.Result) posterResultJSON {
	out := posterResultJSON{
		Folder: r.Folder,
		Title:  r.Title,
		Status: r.Status,
		URL:    r.URL,
		Bytes:  r.Bytes,
	}
	if r.Match != nil {
		m := toMatchJSON(r.Match)
		out.Match = &m
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}
