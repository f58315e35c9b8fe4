package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc/pool"

	"github.com/mwielgos/kinoteka/internal/browse"
	apperrors "github.com/mwielgos/kinoteka/internal/errors"
	"github.com/mwielgos/kinoteka/internal/external/tmdb"
	"github.com/mwielgos/kinoteka/internal/models"
	"github.com/mwielgos/kinoteka/internal/watchlist"
)

// homeSectionLimit caps each landing page section.
const homeSectionLimit = 12

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.deps.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (s *Server) browsePage(c *gin.Context) {
	params := browse.Params{
		Query:  c.Query("query"),
		Type:   mediaTypeParam(c),
		Page:   intQueryDefault(c, "page", 1),
		Locale: c.Query("locale"),
	}
	if genre, ok := intQuery(c, "genre"); ok {
		params.GenreID = &genre
	}
	if year, ok := intQuery(c, "year"); ok {
		params.Year = &year
	}

	result := s.deps.Browse.Page(c.Request.Context(), params)
	ensureTitles(&result.Titles)

	c.JSON(http.StatusOK, BrowseResponse{
		Results:    result.Titles,
		TotalPages: result.TotalPages,
		Watchlist:  s.membershipIndex(c),
	})
}

func (s *Server) listGenres(c *gin.Context) {
	genres := s.deps.Browse.Genres(c.Request.Context(), mediaTypeParam(c), c.Query("locale"))
	c.JSON(http.StatusOK, genres)
}

func (s *Server) homeSections(c *gin.Context) {
	language := browse.LanguageTag(c.Query("locale"))
	ctx := c.Request.Context()

	var response HomeResponse
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		titles, err := s.deps.Metadata.PopularMovies(ctx, homeSectionLimit, language)
		response.Popular = titles
		return err
	})
	p.Go(func(ctx context.Context) error {
		titles, err := s.deps.Metadata.NowPlayingMovies(ctx, homeSectionLimit, language)
		response.NowPlaying = titles
		return err
	})
	p.Go(func(ctx context.Context) error {
		titles, err := s.deps.Metadata.PopularTVShows(ctx, homeSectionLimit, language)
		response.PopularTV = titles
		return err
	})
	if err := p.Wait(); err != nil {
		// Sections degrade independently; failed ones stay empty.
		s.logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("home section fetch failed")
	}

	ensureTitles(&response.Popular)
	ensureTitles(&response.NowPlaying)
	ensureTitles(&response.PopularTV)
	c.JSON(http.StatusOK, response)
}

func (s *Server) movieDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	language := browse.LanguageTag(c.Query("locale"))
	details, err := s.deps.Metadata.MovieDetails(c.Request.Context(), id, language)
	if err != nil {
		s.respondError(c, apperrors.ExternalServiceError("tmdb", "failed to load movie details", err))
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	// Provider availability is best effort.
	providers, err := s.deps.Metadata.MovieWatchProviders(c.Request.Context(), id)
	if err != nil {
		providers = nil
	}

	c.JSON(http.StatusOK, MovieDetailResponse{
		MovieDetails:   details,
		WatchProviders: providers,
	})
}

func (s *Server) tvDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	language := browse.LanguageTag(c.Query("locale"))
	details, err := s.deps.Metadata.TVDetails(c.Request.Context(), id, language)
	if err != nil {
		s.respondError(c, apperrors.ExternalServiceError("tmdb", "failed to load tv details", err))
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	providers, err := s.deps.Metadata.TVWatchProviders(c.Request.Context(), id)
	if err != nil {
		providers = nil
	}

	c.JSON(http.StatusOK, TVDetailResponse{
		TVDetails:      details,
		WatchProviders: providers,
	})
}

func (s *Server) personDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	language := browse.LanguageTag(c.Query("locale"))
	details, err := s.deps.Metadata.PersonDetails(c.Request.Context(), id, language)
	if err != nil {
		s.respondError(c, apperrors.ExternalServiceError("tmdb", "failed to load person details", err))
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	// Filmography is best effort.
	credits, err := s.deps.Metadata.PersonMovieCredits(c.Request.Context(), id, language)
	if err != nil {
		credits = []tmdb.PersonCredit{}
	}

	c.JSON(http.StatusOK, PersonDetailResponse{
		PersonDetails: details,
		ProfileURL:    tmdb.ImageURL(details.ProfilePath, tmdb.ProfileLarge),
		Credits:       credits,
	})
}

// membershipIndex returns the signed-in user's watchlist index, or an empty
// map for anonymous requests.
func (s *Server) membershipIndex(c *gin.Context) map[string]string {
	userID := currentUserID(c)
	if userID == "" {
		return map[string]string{}
	}
	entries, err := s.deps.Watchlist.List(userID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("failed to load watchlist for membership index")
		return map[string]string{}
	}
	return watchlist.MembershipIndex(entries)
}

// respondError maps an application error to its HTTP status.
func (s *Server) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request.Context(), "request failed", err)
	}
	c.JSON(status, ErrorResponse{Error: http.StatusText(status), Message: err.Error()})
}

func mediaTypeParam(c *gin.Context) models.MediaType {
	switch c.Query("type") {
	case string(models.MediaTypeMovie):
		return models.MediaTypeMovie
	case string(models.MediaTypeTV):
		return models.MediaTypeTV
	default:
		return models.MediaTypeAll
	}
}

func intQuery(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0, false
	}
	return value, true
}

func intQueryDefault(c *gin.Context, name string, fallback int) int {
	if value, ok := intQuery(c, name); ok && value > 0 {
		return value
	}
	return fallback
}

func ensureTitles(titles *[]tmdb.Title) {
	if *titles == nil {
		*titles = []tmdb.Title{}
	}
}
