// Package browse implements the discover/search pipeline: filter state in,
// annotated result page out. It decides between free-text search and
// structured discovery, resolves the genre taxonomy, and degrades provider
// outages to empty pages instead of surfacing them.
package browse

import (
	"context"
	"strings"

	"github.com/mwielgos/kinoteka/internal/external/tmdb"
	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/models"
)

// metadataProvider is the slice of the TMDB client the orchestrator needs.
type metadataProvider interface {
	Discover(ctx context.Context, opts tmdb.DiscoverOptions) (tmdb.Page, error)
	SearchMulti(ctx context.Context, query string, page int, language string) (tmdb.Page, error)
	MovieGenres(ctx context.Context, language string) ([]tmdb.Genre, error)
	TVGenres(ctx context.Context, language string) ([]tmdb.Genre, error)
}

var _ metadataProvider = (*tmdb.Client)(nil)

// Params is the full filter state for one browse request. It is rebuilt from
// request parameters on every call and never stored.
type Params struct {
	Query   string
	Type    models.MediaType
	GenreID *int
	Year    *int
	Page    int
	Locale  string
}

// Result is one page of titles plus the provider's reported depth.
type Result struct {
	Titles     []tmdb.Title `json:"results"`
	TotalPages int          `json:"total_pages"`
}

// Service orchestrates provider calls for the browse surface. It is
// stateless and safe for concurrent use.
type Service struct {
	provider metadataProvider
	logger   *logger.Logger
}

// NewService creates a browse service backed by the given metadata provider.
func NewService(provider metadataProvider) *Service {
	return &Service{
		provider: provider,
		logger:   logger.AppLogger(),
	}
}

// Page returns one result page for the given filter state. A non-blank query
// routes to free-text search and ignores the type/genre/year filters (search
// does not support them). Provider failures are logged and degraded to an
// empty page: a provider outage yields an empty browse view, not an error.
func (s *Service) Page(ctx context.Context, params Params) Result {
	lang := LanguageTag(params.Locale)
	if params.Page < 1 {
		params.Page = 1
	}

	query := strings.TrimSpace(params.Query)
	if query != "" {
		page, err := s.provider.SearchMulti(ctx, query, params.Page, lang)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"query": query,
				"page":  params.Page,
			}).Error("metadata search failed", err)
			return Result{Titles: []tmdb.Title{}}
		}
		return Result{Titles: page.Results, TotalPages: page.TotalPages}
	}

	mediaType := params.Type
	if mediaType == "" {
		mediaType = models.MediaTypeAll
	}

	page, err := s.provider.Discover(ctx, tmdb.DiscoverOptions{
		Type:     mediaType,
		GenreID:  params.GenreID,
		Year:     params.Year,
		Page:     params.Page,
		Language: lang,
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"type": string(mediaType),
			"page": params.Page,
		}).Error("metadata discovery failed", err)
		return Result{Titles: []tmdb.Title{}}
	}

	return Result{Titles: page.Results, TotalPages: page.TotalPages}
}

// Genres resolves the genre taxonomy for the given media type filter. For
// movie or tv the provider's list order is preserved. For "all" the two lists
// are merged: movie genres establish the base set and TV genres only add ids
// not already present, so a colliding id keeps the movie-list name. Provider
// failures yield an empty list for that media type, never an error.
func (s *Service) Genres(ctx context.Context, mediaType models.MediaType, locale string) []tmdb.Genre {
	lang := LanguageTag(locale)

	fetch := func(f func(context.Context, string) ([]tmdb.Genre, error), kind string) []tmdb.Genre {
		genres, err := f(ctx, lang)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"media_type": kind,
			}).Warn("genre list fetch failed")
			return []tmdb.Genre{}
		}
		return genres
	}

	switch mediaType {
	case models.MediaTypeMovie:
		return fetch(s.provider.MovieGenres, "movie")
	case models.MediaTypeTV:
		return fetch(s.provider.TVGenres, "tv")
	default:
		return mergeGenres(
			fetch(s.provider.MovieGenres, "movie"),
			fetch(s.provider.TVGenres, "tv"),
		)
	}
}

// mergeGenres combines the movie and TV genre spaces into one list, movie
// entries first. The two id spaces may collide; the first-inserted (movie)
// name wins and the ambiguity is accepted.
func mergeGenres(movieGenres, tvGenres []tmdb.Genre) []tmdb.Genre {
	merged := make([]tmdb.Genre, 0, len(movieGenres)+len(tvGenres))
	seen := make(map[int]bool, len(movieGenres))

	for _, g := range movieGenres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		merged = append(merged, g)
	}
	for _, g := range tvGenres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		merged = append(merged, g)
	}

	return merged
}
