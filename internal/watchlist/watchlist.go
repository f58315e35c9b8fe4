// Package watchlist manages a user's saved titles: idempotent adds, watched
// state, comments, and the membership index the browse surface uses to render
// add/remove affordances.
package watchlist

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/models"
)

var (
	ErrUserIDRequired    = errors.New("user id is required")
	ErrTitleIDRequired   = errors.New("title id is required")
	ErrMediaTypeRequired = errors.New("media type must be movie or tv")
	ErrEntryNotFound     = errors.New("watchlist entry not found")
)

// Service provides watchlist persistence operations
type Service struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewService creates a watchlist service backed by the given database
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: logger.AppLogger(),
	}
}

// AddInput carries the provider-side identity plus the display fields cached
// at insertion time. The cached fields are never refreshed afterwards.
type AddInput struct {
	TMDBID     int              `json:"tmdb_id"`
	Type       models.MediaType `json:"type"`
	Title      *string          `json:"title,omitempty"`
	PosterPath *string          `json:"poster_path,omitempty"`
	Overview   *string          `json:"overview,omitempty"`
}

// Add saves a title to the user's watchlist. The operation is idempotent:
// adding a title that is already present is a no-op and returns the existing
// entry unchanged, including its watched state and comment.
func (s *Service) Add(userID string, input AddInput) (models.WatchlistEntry, error) {
	if userID == "" {
		return models.WatchlistEntry{}, ErrUserIDRequired
	}
	if input.TMDBID <= 0 {
		return models.WatchlistEntry{}, ErrTitleIDRequired
	}
	if !input.Type.Valid() {
		return models.WatchlistEntry{}, ErrMediaTypeRequired
	}

	entry := models.WatchlistEntry{
		ID:         uuid.New().String(),
		UserID:     userID,
		TMDBID:     input.TMDBID,
		Type:       input.Type,
		Title:      input.Title,
		PosterPath: input.PosterPath,
		Overview:   input.Overview,
	}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tmdb_id"}, {Name: "type"}},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to add watchlist entry: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Conflict: the entry already exists, return it as-is.
		var existing models.WatchlistEntry
		err := s.db.
			Where("user_id = ? AND tmdb_id = ? AND type = ?", userID, input.TMDBID, input.Type).
			First(&existing).Error
		if err != nil {
			return models.WatchlistEntry{}, fmt.Errorf("failed to load existing watchlist entry: %w", err)
		}
		return existing, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"tmdb_id": input.TMDBID,
		"type":    string(input.Type),
	}).Debug("watchlist entry added")

	return entry, nil
}

// List returns the user's watchlist entries, newest first.
func (s *Service) List(userID string) ([]models.WatchlistEntry, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	var entries []models.WatchlistEntry
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist entries: %w", err)
	}

	return entries, nil
}

// SetWatched flips the watched flag on an entry the user owns. Marking
// watched stamps the time and optionally replaces the comment; marking
// unwatched clears the timestamp. A nil comment leaves the stored comment
// untouched.
func (s *Service) SetWatched(userID, entryID string, watched bool, comment *string) (models.WatchlistEntry, error) {
	if userID == "" {
		return models.WatchlistEntry{}, ErrUserIDRequired
	}

	entry, err := s.ownedEntry(userID, entryID)
	if err != nil {
		return models.WatchlistEntry{}, err
	}

	updates := map[string]interface{}{"watched": watched}
	if watched {
		now := time.Now().UTC()
		updates["watched_at"] = &now
	} else {
		updates["watched_at"] = nil
	}
	if comment != nil {
		updates["comment"] = comment
	}

	if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to update watched state: %w", err)
	}

	return s.ownedEntry(userID, entryID)
}

// UpdateComment replaces the free-text comment, leaving the watched state
// untouched.
func (s *Service) UpdateComment(userID, entryID string, comment *string) (models.WatchlistEntry, error) {
	if userID == "" {
		return models.WatchlistEntry{}, ErrUserIDRequired
	}

	entry, err := s.ownedEntry(userID, entryID)
	if err != nil {
		return models.WatchlistEntry{}, err
	}

	if err := s.db.Model(&entry).Update("comment", comment).Error; err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to update comment: %w", err)
	}

	return s.ownedEntry(userID, entryID)
}

// Remove deletes an entry the user owns. It reports whether a row was
// actually removed.
func (s *Service) Remove(userID, entryID string) (bool, error) {
	if userID == "" {
		return false, ErrUserIDRequired
	}
	if entryID == "" {
		return false, ErrEntryNotFound
	}

	result := s.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove watchlist entry: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (s *Service) ownedEntry(userID, entryID string) (models.WatchlistEntry, error) {
	var entry models.WatchlistEntry
	err := s.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WatchlistEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("failed to load watchlist entry: %w", err)
	}
	return entry, nil
}

// MembershipKey builds the index key for a provider-scoped title identity.
func MembershipKey(tmdbID int, mediaType models.MediaType) string {
	return fmt.Sprintf("%d:%s", tmdbID, mediaType)
}

// MembershipIndex maps title identities to watchlist entry ids for O(1)
// lookup while rendering a result page. An empty entry list, as supplied for
// signed-out requests, yields an empty index: every title renders as not in
// the watchlist.
func MembershipIndex(entries []models.WatchlistEntry) map[string]string {
	index := make(map[string]string, len(entries))
	for _, entry := range entries {
		index[MembershipKey(entry.TMDBID, entry.Type)] = entry.ID
	}
	return index
}
