package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultCacheTTL     = 24 * time.Hour
	defaultRateLimit    = 40 // requests per second
)

// Sentinel errors for TMDB API responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized: invalid TMDB API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
	ErrNoPoster     = errors.New("no poster available")
)

// Client is a TMDB API client.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
	log          *slog.Logger
	movies       *cache[*Movie]
	shows        *cache[*TVShow]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithImageBaseURL sets the image CDN base, e.g. "https://image.tmdb.org/t/p".
func WithImageBaseURL(url string) Option {
	return func(c *Client) {
		c.imageBaseURL = url
	}
}

// WithCacheTTL sets the detail cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.movies = newCache[*Movie](ttl)
		c.shows = newCache[*TVShow](ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tmdb")
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(defaultRateLimit, 1),
		movies:  newCache[*Movie](defaultCacheTTL),
		shows:   newCache[*TVShow](defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries /search/{movie|tv}. Results keep TMDB's relevance order.
func (c *Client) Search(ctx context.Context, kind MediaKind, query string) ([]SearchResult, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, "/3/search/"+kind.String(), params, &resp); err != nil {
		return nil, fmt.Errorf("search %s %q: %w", kind, query, err)
	}

	if c.log != nil {
		c.log.Debug("search completed", "kind", kind, "query", query, "results", len(resp.Results), "duration_ms", time.Since(start).Milliseconds())
	}

	return resp.Results, nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	if movie, ok := c.movies.get(tmdbID); ok {
		return movie, nil
	}

	var movie Movie
	if err := c.get(ctx, "/3/movie/"+strconv.FormatInt(tmdbID, 10), nil, &movie); err != nil {
		return nil, err
	}

	c.movies.set(tmdbID, &movie)
	return &movie, nil
}

// GetTV fetches series metadata by TMDB ID.
func (c *Client) GetTV(ctx context.Context, tmdbID int64) (*TVShow, error) {
	if show, ok := c.shows.get(tmdbID); ok {
		return show, nil
	}

	var show TVShow
	if err := c.get(ctx, "/3/tv/"+strconv.FormatInt(tmdbID, 10), nil, &show); err != nil {
		return nil, err
	}

	c.shows.set(tmdbID, &show)
	return &show, nil
}

// PosterPath returns the poster_path of a movie or show record.
// Returns ErrNoPoster when TMDB has no poster for it.
func (c *Client) PosterPath(ctx context.Context, kind MediaKind, tmdbID int64) (string, error) {
	var path string
	switch kind {
	case KindMovie:
		movie, err := c.GetMovie(ctx, tmdbID)
		if err != nil {
			return "", err
		}
		path = movie.PosterPath
	case KindTV:
		show, err := c.GetTV(ctx, tmdbID)
		if err != nil {
			return "", err
		}
		path = show.PosterPath
	default:
		return "", fmt.Errorf("unknown media kind %q", kind)
	}

	if path == "" {
		return "", ErrNoPoster
	}
	return path, nil
}

// PosterURL returns the full image URL for a poster path.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (c *Client) PosterURL(size, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageBaseURL + "/" + size + posterPath
}

// Download streams the body at imageURL into w and returns the byte count.
func (c *Client) Download(ctx context.Context, imageURL string, w io.Writer) (int64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read image: %w", err)
	}
	return n, nil
}

// get performs a GET against the API and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}
}
