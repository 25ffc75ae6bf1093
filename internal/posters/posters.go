// Package posters downloads TMDB poster art into title folders.
package posters

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vmunix/postarr/internal/library"
	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/internal/tmdb"
	"github.com/vmunix/postarr/pkg/title"
)

// DefaultPosterSize is the TMDB image size requested when none is configured.
const DefaultPosterSize = "original"

// Matcher resolves a folder name to a TMDB record of the given kind, either
// by the full clean title or by its first-token fallback.
type Matcher interface {
	LookupTitle(ctx context.Context, kind tmdb.MediaKind, folderName string) (*resolver.Match, error)
	LookupFallback(ctx context.Context, kind tmdb.MediaKind, folderName string) (*resolver.Match, error)
}

// Source provides poster paths and image bytes.
type Source interface {
	PosterPath(ctx context.Context, kind tmdb.MediaKind, tmdbID int64) (string, error)
	PosterURL(size, posterPath string) string
	Download(ctx context.Context, imageURL string, w io.Writer) (int64, error)
}

// Status is the outcome for one folder.
type Status string

const (
	StatusDownloaded    Status = "downloaded"
	StatusWouldDownload Status = "would_download" // dry run
	StatusSkipped       Status = "skipped"
	StatusNotFound      Status = "not_found"
	StatusNoPoster      Status = "no_poster"
	StatusFailed        Status = "failed"
)

// Result describes what happened to one folder.
type Result struct {
	Folder string
	Title  string // clean title
	Status Status
	Match  *resolver.Match
	URL    string
	Bytes  int64
	Err    error
}

// Stats counts results by status.
type Stats struct {
	Folders       int `json:"folders"`
	Downloaded    int `json:"downloaded"`
	WouldDownload int `json:"would_download,omitempty"`
	Skipped       int `json:"skipped"`
	NotFound      int `json:"not_found"`
	NoPoster      int `json:"no_poster"`
	Failed        int `json:"failed"`
}

func (s *Stats) add(r Result) {
	s.Folders++
	switch r.Status {
	case StatusDownloaded:
		s.Downloaded++
	case StatusWouldDownload:
		s.WouldDownload++
	case StatusSkipped:
		s.Skipped++
	case StatusNotFound:
		s.NotFound++
	case StatusNoPoster:
		s.NoPoster++
	case StatusFailed:
		s.Failed++
	}
}

// Options controls a poster run.
type Options struct {
	// Kinds are tried in order until one matches, e.g. movie then tv.
	Kinds        []tmdb.MediaKind
	PosterSize   string
	DryRun       bool
	SkipExisting bool
}

// Fetcher walks a library root and saves a poster into each title folder.
type Fetcher struct {
	matcher Matcher
	source  Source
	opts    Options
	log     *slog.Logger
}

// New creates a Fetcher. Empty Kinds default to movie; empty PosterSize to "original".
func New(matcher Matcher, source Source, opts Options, log *slog.Logger) *Fetcher {
	if len(opts.Kinds) == 0 {
		opts.Kinds = []tmdb.MediaKind{tmdb.KindMovie}
	}
	if opts.PosterSize == "" {
		opts.PosterSize = DefaultPosterSize
	}
	return &Fetcher{
		matcher: matcher,
		source:  source,
		opts:    opts,
		log:     log.With("component", "posters"),
	}
}

// Run processes every folder under root in name order, one at a time.
// onResult, if non-nil, is called after each folder. Per-folder failures are
// counted in Stats; only a missing root or a cancelled context is returned.
func (f *Fetcher) Run(ctx context.Context, root string, onResult func(Result)) (Stats, error) {
	var stats Stats

	folders, err := library.Folders(root)
	if err != nil {
		return stats, err
	}

	f.log.Info("found folders", "root", root, "count", len(folders), "kinds", f.opts.Kinds)

	for _, dir := range folders {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		r := f.ProcessFolder(ctx, dir)
		stats.add(r)
		if onResult != nil {
			onResult(r)
		}
	}

	return stats, nil
}

// ProcessFolder runs search, fetch, and download for a single title folder.
func (f *Fetcher) ProcessFolder(ctx context.Context, dir string) Result {
	name := filepath.Base(dir)
	r := Result{Folder: dir, Title: title.Clean(name)}
	log := f.log.With("folder", name, "title", r.Title)

	if f.opts.SkipExisting && library.HasPoster(dir) {
		log.Debug("poster exists, skipping")
		r.Status = StatusSkipped
		return r
	}

	log.Info("processing")

	match, err := f.lookup(ctx, name)
	if err != nil {
		if errors.Is(err, resolver.ErrNoMatch) || errors.Is(err, resolver.ErrEmptyQuery) {
			log.Warn("could not find title on TMDB", "error", err)
			r.Status = StatusNotFound
		} else {
			log.Error("search failed", "error", err)
			r.Status = StatusFailed
		}
		r.Err = err
		return r
	}
	r.Match = match

	posterPath, err := f.source.PosterPath(ctx, match.Kind, match.Result.ID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNoPoster) {
			log.Warn("no poster found", "tmdb_id", match.Result.ID)
			r.Status = StatusNoPoster
		} else {
			log.Error("failed to get poster", "kind", match.Kind, "tmdb_id", match.Result.ID, "error", err)
			r.Status = StatusFailed
		}
		r.Err = err
		return r
	}

	r.URL = f.source.PosterURL(f.opts.PosterSize, posterPath)

	if f.opts.DryRun {
		log.Info("would download poster", "url", r.URL)
		r.Status = StatusWouldDownload
		return r
	}

	n, err := library.WritePoster(dir, func(w io.Writer) (int64, error) {
		return f.source.Download(ctx, r.URL, w)
	})
	if err != nil {
		log.Error("failed to download poster", "url", r.URL, "error", err)
		r.Status = StatusFailed
		r.Err = err
		return r
	}

	log.Info("downloaded poster", "tmdb_id", match.Result.ID, "bytes", n)
	r.Status = StatusDownloaded
	r.Bytes = n
	return r
}

// lookup searches the full clean title under every configured kind before
// any kind gets the first-token fallback. A search error on one kind does not
// stop the other kinds, but that kind is left out of the fallback round.
func (f *Fetcher) lookup(ctx context.Context, name string) (*resolver.Match, error) {
	var lastErr error
	failed := make(map[tmdb.MediaKind]bool)

	record := func(kind tmdb.MediaKind, err error) {
		if !errors.Is(err, resolver.ErrNoMatch) {
			f.log.Warn("lookup failed", "folder", name, "kind", kind, "error", err)
			failed[kind] = true
		}
		// A real failure outranks a plain miss when reporting
		if lastErr == nil || !errors.Is(err, resolver.ErrNoMatch) {
			lastErr = err
		}
	}

	for _, kind := range f.opts.Kinds {
		match, err := f.matcher.LookupTitle(ctx, kind, name)
		if err == nil {
			return match, nil
		}
		if errors.Is(err, resolver.ErrEmptyQuery) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		record(kind, err)
	}

	for _, kind := range f.opts.Kinds {
		if failed[kind] {
			continue
		}
		match, err := f.matcher.LookupFallback(ctx, kind, name)
		if err == nil {
			return match, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		record(kind, err)
	}

	return nil, lastErr
}
