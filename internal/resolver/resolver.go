// Package resolver matches media folder names to TMDB records.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/postarr/internal/tmdb"
	"github.com/vmunix/postarr/pkg/title"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mock_searcher.go -package=mocks

var (
	// ErrNoMatch is returned when neither the full nor the fallback query finds anything.
	ErrNoMatch = errors.New("no match")

	// ErrEmptyQuery is returned when cleaning leaves nothing to search for.
	ErrEmptyQuery = errors.New("empty query")
)

// Searcher runs a title search and returns candidates in provider order.
type Searcher interface {
	Search(ctx context.Context, kind tmdb.MediaKind, query string) ([]tmdb.SearchResult, error)
}

// Query is a search string plus an optional year tie-breaker.
type Query struct {
	Text string
	Year int // 0 = unknown
}

// Match is the outcome of a successful Lookup.
type Match struct {
	Result     tmdb.SearchResult
	Kind       tmdb.MediaKind
	Query      string  // query text that produced the result
	Fallback   bool    // true if the first-token fallback query was used
	Similarity float64 // Jaro-Winkler between clean title and result title, 0-1
}

// Resolver turns folder names into TMDB search results.
type Resolver struct {
	searcher Searcher
	log      *slog.Logger
}

// New creates a Resolver.
func New(searcher Searcher, log *slog.Logger) *Resolver {
	return &Resolver{
		searcher: searcher,
		log:      log.With("component", "resolver"),
	}
}

// FindMatch searches once and picks a result.
// Parenthesized text is stripped from the query before searching. When a year
// is known (q.Year, or a "(YYYY)" inside q.Text), the first result whose date
// starts with it wins; otherwise the first result wins.
// Returns nil, nil when the provider has no results.
func (r *Resolver) FindMatch(ctx context.Context, kind tmdb.MediaKind, q Query) (*tmdb.SearchResult, error) {
	text := title.StripParentheses(q.Text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	results, err := r.searcher.Search(ctx, kind, text)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	year := q.Year
	if year == 0 {
		year = title.Year(q.Text)
	}

	if year != 0 {
		for i := range results {
			if title.MatchesYear(results[i].Date(), year) {
				return &results[i], nil
			}
		}
	}

	return &results[0], nil
}

// Lookup cleans folderName, searches, and on no result retries once with the
// first token of the clean title.
func (r *Resolver) Lookup(ctx context.Context, kind tmdb.MediaKind, folderName string) (*Match, error) {
	m, err := r.LookupTitle(ctx, kind, folderName)
	if !errors.Is(err, ErrNoMatch) {
		return m, err
	}

	r.log.Debug("no results, trying fallback", "kind", kind, "folder", folderName)
	return r.LookupFallback(ctx, kind, folderName)
}

// LookupTitle searches with the full clean title only.
// Returns ErrEmptyQuery when nothing is left after cleaning and ErrNoMatch
// when the search comes back empty.
func (r *Resolver) LookupTitle(ctx context.Context, kind tmdb.MediaKind, folderName string) (*Match, error) {
	info := title.Parse(folderName)

	result, err := r.FindMatch(ctx, kind, Query{Text: info.Clean, Year: info.Year})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", info.Clean, err)
	}
	if result == nil {
		return nil, ErrNoMatch
	}
	return r.newMatch(info, kind, info.Clean, false, result), nil
}

// LookupFallback searches with the first token of the clean title only.
// A token that strips to nothing, like "(500)", is reported as ErrNoMatch.
func (r *Resolver) LookupFallback(ctx context.Context, kind tmdb.MediaKind, folderName string) (*Match, error) {
	info := title.Parse(folderName)
	if info.Clean == "" {
		return nil, ErrEmptyQuery
	}

	result, err := r.FindMatch(ctx, kind, Query{Text: info.Fallback, Year: info.Year})
	if errors.Is(err, ErrEmptyQuery) {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("fallback search %q: %w", info.Fallback, err)
	}
	if result == nil {
		return nil, ErrNoMatch
	}
	return r.newMatch(info, kind, info.Fallback, true, result), nil
}

func (r *Resolver) newMatch(info title.Info, kind tmdb.MediaKind, query string, fallback bool, result *tmdb.SearchResult) *Match {
	m := &Match{
		Result:     *result,
		Kind:       kind,
		Query:      query,
		Fallback:   fallback,
		Similarity: similarity(info.Clean, result.DisplayTitle()),
	}

	r.log.Debug("matched",
		"kind", kind,
		"query", query,
		"tmdb_id", result.ID,
		"title", result.DisplayTitle(),
		"date", result.Date(),
		"fallback", fallback,
		"similarity", m.Similarity)

	return m
}

// similarity compares titles case-insensitively with dots read as spaces.
func similarity(a, b string) float64 {
	norm := func(s string) string {
		s = strings.ToLower(strings.ReplaceAll(s, ".", " "))
		return strings.Join(strings.Fields(s), " ")
	}
	return float64(edlib.JaroWinklerSimilarity(norm(a), norm(b)))
}
