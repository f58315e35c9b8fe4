package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/models"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 10 * time.Second
)

// StatusError reports a non-success response from the metadata provider.
// Callers are expected to catch it and degrade to an empty result set.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: provider returned status %d", e.Code)
}

// Client handles TMDB API interactions. A client without an API key is valid:
// listing calls return empty pages instead of failing, which keeps the browse
// surface usable while the credential is unset.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// Config holds TMDB client configuration
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new TMDB API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.AppLogger(),
	}
}

// Configured reports whether a provider credential is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// DiscoverOptions describe a structured browse query.
type DiscoverOptions struct {
	Type     models.MediaType // movie, tv or all
	GenreID  *int
	Year     *int
	Page     int
	Language string
}

// Discover queries the movie and/or TV discovery endpoints. For type "all"
// both endpoints are queried concurrently, results are concatenated and
// sorted descending by vote average, and the reported total page count is
// taken from the movie response only. That last part under- or over-reports
// the combined pagination depth; it mirrors the established behavior and is
// kept deliberately.
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) (Page, error) {
	if !c.Configured() {
		return Page{Results: []Title{}}, nil
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Type == "" {
		opts.Type = models.MediaTypeAll
	}

	wantMovies := opts.Type == models.MediaTypeMovie || opts.Type == models.MediaTypeAll
	wantTV := opts.Type == models.MediaTypeTV || opts.Type == models.MediaTypeAll

	var movies movieListResponse
	var shows tvListResponse

	p := pool.New().WithErrors().WithContext(ctx)
	if wantMovies {
		p.Go(func(ctx context.Context) error {
			params := discoverParams(opts, "primary_release_date")
			return c.makeRequest(ctx, "/discover/movie", params, opts.Language, &movies)
		})
	}
	if wantTV {
		p.Go(func(ctx context.Context) error {
			params := discoverParams(opts, "first_air_date")
			return c.makeRequest(ctx, "/discover/tv", params, opts.Language, &shows)
		})
	}
	if err := p.Wait(); err != nil {
		return Page{}, err
	}

	results := make([]Title, 0, len(movies.Results)+len(shows.Results))
	for _, m := range movies.Results {
		results = append(results, m.toTitle())
	}
	for _, s := range shows.Results {
		results = append(results, s.toTitle())
	}

	totalPages := movies.TotalPages
	if opts.Type == models.MediaTypeTV {
		totalPages = shows.TotalPages
	}

	if opts.Type == models.MediaTypeAll {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].VoteAverage > results[j].VoteAverage
		})
	}

	return Page{Results: results, TotalPages: totalPages}, nil
}

// discoverParams builds the endpoint-specific query values. The year filter
// maps to a closed Jan 1 - Dec 31 date range on the given date field.
func discoverParams(opts DiscoverOptions, dateField string) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(opts.Page))
	if opts.GenreID != nil {
		params.Set("with_genres", strconv.Itoa(*opts.GenreID))
	}
	if opts.Year != nil {
		params.Set(dateField+".gte", fmt.Sprintf("%d-01-01", *opts.Year))
		params.Set(dateField+".lte", fmt.Sprintf("%d-12-31", *opts.Year))
	}
	return params
}

// SearchMulti free-text searches across movies and TV shows. Person results
// and other non-title media types are dropped. A blank query returns an empty
// page without touching the network.
func (c *Client) SearchMulti(ctx context.Context, query string, page int, language string) (Page, error) {
	query = strings.TrimSpace(query)
	if query == "" || !c.Configured() {
		return Page{Results: []Title{}}, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var response multiListResponse
	if err := c.makeRequest(ctx, "/search/multi", params, language, &response); err != nil {
		return Page{}, err
	}

	results := make([]Title, 0, len(response.Results))
	for _, r := range response.Results {
		if title, ok := r.toTitle(); ok {
			results = append(results, title)
		}
	}

	return Page{Results: results, TotalPages: response.TotalPages}, nil
}

// MovieGenres returns the movie genre list in provider order.
func (c *Client) MovieGenres(ctx context.Context, language string) ([]Genre, error) {
	return c.genres(ctx, "/genre/movie/list", language)
}

// TVGenres returns the TV genre list in provider order.
func (c *Client) TVGenres(ctx context.Context, language string) ([]Genre, error) {
	return c.genres(ctx, "/genre/tv/list", language)
}

func (c *Client) genres(ctx context.Context, endpoint, language string) ([]Genre, error) {
	if !c.Configured() {
		return []Genre{}, nil
	}

	var response genreListResponse
	if err := c.makeRequest(ctx, endpoint, url.Values{}, language, &response); err != nil {
		return nil, err
	}
	if response.Genres == nil {
		return []Genre{}, nil
	}
	return response.Genres, nil
}

// PopularMovies returns up to limit popular movies from the first page.
func (c *Client) PopularMovies(ctx context.Context, limit int, language string) ([]Title, error) {
	return c.movieList(ctx, "/movie/popular", limit, language)
}

// NowPlayingMovies returns up to limit movies currently in theaters.
func (c *Client) NowPlayingMovies(ctx context.Context, limit int, language string) ([]Title, error) {
	return c.movieList(ctx, "/movie/now_playing", limit, language)
}

// PopularTVShows returns up to limit popular TV shows from the first page.
func (c *Client) PopularTVShows(ctx context.Context, limit int, language string) ([]Title, error) {
	if !c.Configured() {
		return []Title{}, nil
	}

	params := url.Values{}
	params.Set("page", "1")

	var response tvListResponse
	if err := c.makeRequest(ctx, "/tv/popular", params, language, &response); err != nil {
		return nil, err
	}

	results := make([]Title, 0, limit)
	for _, s := range response.Results {
		if len(results) == limit {
			break
		}
		results = append(results, s.toTitle())
	}
	return results, nil
}

func (c *Client) movieList(ctx context.Context, endpoint string, limit int, language string) ([]Title, error) {
	if !c.Configured() {
		return []Title{}, nil
	}

	params := url.Values{}
	params.Set("page", "1")

	var response movieListResponse
	if err := c.makeRequest(ctx, endpoint, params, language, &response); err != nil {
		return nil, err
	}

	results := make([]Title, 0, limit)
	for _, m := range response.Results {
		if len(results) == limit {
			break
		}
		results = append(results, m.toTitle())
	}
	return results, nil
}

// MovieDetails retrieves detailed information for a specific movie.
// Returns nil without an error when no credential is configured.
func (c *Client) MovieDetails(ctx context.Context, movieID int, language string) (*MovieDetails, error) {
	if !c.Configured() {
		return nil, nil
	}

	var details MovieDetails
	endpoint := fmt.Sprintf("/movie/%d", movieID)
	if err := c.makeRequest(ctx, endpoint, url.Values{}, language, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// TVDetails retrieves detailed information for a specific TV show.
func (c *Client) TVDetails(ctx context.Context, tvID int, language string) (*TVDetails, error) {
	if !c.Configured() {
		return nil, nil
	}

	var details TVDetails
	endpoint := fmt.Sprintf("/tv/%d", tvID)
	if err := c.makeRequest(ctx, endpoint, url.Values{}, language, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// MovieWatchProviders returns streaming availability for a movie, preferring
// the US region, then GB, then the alphabetically first region present.
func (c *Client) MovieWatchProviders(ctx context.Context, movieID int) (*WatchProviders, error) {
	return c.watchProviders(ctx, fmt.Sprintf("/movie/%d/watch/providers", movieID))
}

// TVWatchProviders returns streaming availability for a TV show.
func (c *Client) TVWatchProviders(ctx context.Context, tvID int) (*WatchProviders, error) {
	return c.watchProviders(ctx, fmt.Sprintf("/tv/%d/watch/providers", tvID))
}

func (c *Client) watchProviders(ctx context.Context, endpoint string) (*WatchProviders, error) {
	if !c.Configured() {
		return nil, nil
	}

	var response watchProvidersResponse
	if err := c.makeRequest(ctx, endpoint, url.Values{}, "", &response); err != nil {
		return nil, err
	}

	if region, ok := response.Results["US"]; ok {
		return &region, nil
	}
	if region, ok := response.Results["GB"]; ok {
		return &region, nil
	}

	// Deterministic fallback: alphabetically first region.
	regions := make([]string, 0, len(response.Results))
	for region := range response.Results {
		regions = append(regions, region)
	}
	if len(regions) == 0 {
		return nil, nil
	}
	sort.Strings(regions)
	region := response.Results[regions[0]]
	return &region, nil
}

// PersonDetails retrieves a person's profile.
// Returns nil without an error when no credential is configured.
func (c *Client) PersonDetails(ctx context.Context, personID int, language string) (*PersonDetails, error) {
	if !c.Configured() {
		return nil, nil
	}

	var details PersonDetails
	endpoint := fmt.Sprintf("/person/%d", personID)
	if err := c.makeRequest(ctx, endpoint, url.Values{}, language, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// PersonMovieCredits returns the movies a person is credited in as cast,
// most popular first. Crew credits are not included.
func (c *Client) PersonMovieCredits(ctx context.Context, personID int, language string) ([]PersonCredit, error) {
	if !c.Configured() {
		return []PersonCredit{}, nil
	}

	var response personCreditsResponse
	endpoint := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.makeRequest(ctx, endpoint, url.Values{}, language, &response); err != nil {
		return nil, err
	}

	credits := make([]PersonCredit, 0, len(response.Cast))
	for _, result := range response.Cast {
		credits = append(credits, result.toCredit())
	}
	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].Popularity > credits[j].Popularity
	})
	return credits, nil
}

// makeRequest performs a single uncached HTTP request against the provider.
// There is no retry or backoff: a failed call fails the operation and callers
// decide how to degrade.
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, language string, result interface{}) error {
	params.Set("api_key", c.apiKey)
	if language != "" {
		params.Set("language", language)
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if language != "" {
		req.Header.Set("Accept-Language", language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("TMDB API request failed")
		return &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// ExtractYear extracts the year from a provider date string (YYYY-MM-DD)
func ExtractYear(dateStr string) int {
	if dateStr == "" {
		return 0
	}
	parts := strings.Split(dateStr, "-")
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return year
}
