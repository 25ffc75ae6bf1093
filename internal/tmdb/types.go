// Package tmdb provides a client for The Movie Database API.
package tmdb

import "fmt"

// MediaKind selects the TMDB endpoint family.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// ParseKind converts "movie" or "tv" (also "series", "show") to a MediaKind.
func ParseKind(s string) (MediaKind, error) {
	switch s {
	case "movie", "movies":
		return KindMovie, nil
	case "tv", "series", "show":
		return KindTV, nil
	default:
		return "", fmt.Errorf("unknown media type %q: want movie or tv", s)
	}
}

func (k MediaKind) String() string { return string(k) }

// SearchResult is one candidate from /search/movie or /search/tv.
// Movies fill Title/ReleaseDate, shows fill Name/FirstAirDate.
type SearchResult struct {
	ID           int64  `json:"id"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`   // "2024-03-01"
	FirstAirDate string `json:"first_air_date,omitempty"` // "2019-07-26"
	Overview     string `json:"overview,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// DisplayTitle returns Title for movies and Name for shows.
func (r SearchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date returns the release date, falling back to the first air date.
func (r SearchResult) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

type searchResponse struct {
	Page         int            `json:"page"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

// Movie represents TMDB movie metadata.
type Movie struct {
	ID           int64   `json:"id"`
	IMDBID       string  `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"` // "2024-03-01"
	PosterPath   string  `json:"poster_path"`  // "/abc123.jpg"
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Runtime      int     `json:"runtime"` // minutes
	Genres       []Genre `json:"genres"`
}

// TVShow represents TMDB series metadata.
type TVShow struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	Status           string  `json:"status"`
	Genres           []Genre `json:"genres"`
}

// Genre represents a movie or series genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
