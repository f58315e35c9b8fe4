package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwielgos/kinoteka/internal/models"
	"github.com/mwielgos/kinoteka/internal/watchlist"
)

func (s *Server) listWatchlist(c *gin.Context) {
	entries, err := s.deps.Watchlist.List(currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}

	c.JSON(http.StatusOK, WatchlistResponse{
		Entries:   entries,
		Watchlist: watchlist.MembershipIndex(entries),
	})
}

func (s *Server) addToWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	entry, err := s.deps.Watchlist.Add(currentUserID(c), watchlist.AddInput{
		TMDBID:     req.TMDBID,
		Type:       req.Type,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		Overview:   req.Overview,
	})
	switch {
	case errors.Is(err, watchlist.ErrTitleIDRequired), errors.Is(err, watchlist.ErrMediaTypeRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	case err != nil:
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (s *Server) updateWatchlistEntry(c *gin.Context) {
	var req UpdateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	if req.Watched == nil && req.Comment == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Message: "nothing to update"})
		return
	}

	userID := currentUserID(c)
	entryID := c.Param("id")

	var (
		entry models.WatchlistEntry
		err   error
	)
	if req.Watched != nil {
		entry, err = s.deps.Watchlist.SetWatched(userID, entryID, *req.Watched, req.Comment)
	} else {
		entry, err = s.deps.Watchlist.UpdateComment(userID, entryID, req.Comment)
	}
	if errors.Is(err, watchlist.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) removeFromWatchlist(c *gin.Context) {
	removed, err := s.deps.Watchlist.Remove(currentUserID(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
