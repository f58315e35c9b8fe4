package models

import "time"

// MediaType distinguishes the two provider-side numbering spaces. A movie and
// a TV show can share a numeric id, so (type, id) is the real identity.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAll   MediaType = "all"
)

// Valid reports whether the media type names a concrete title kind.
// MediaTypeAll is a filter value only and is never persisted.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// WatchlistEntry is a user's saved reference to a title. Title, poster and
// overview are snapshots taken at insertion time and are never refreshed from
// the provider afterwards.
type WatchlistEntry struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_watchlist_identity;index" json:"user_id"`
	TMDBID     int        `gorm:"not null;uniqueIndex:idx_watchlist_identity" json:"tmdb_id"`
	Type       MediaType  `gorm:"type:varchar(10);not null;uniqueIndex:idx_watchlist_identity" json:"type"`
	Title      *string    `gorm:"type:varchar(512)" json:"title,omitempty"`
	PosterPath *string    `gorm:"type:text" json:"poster_path,omitempty"`
	Overview   *string    `gorm:"type:text" json:"overview,omitempty"`
	Watched    bool       `gorm:"not null;default:false" json:"watched"`
	WatchedAt  *time.Time `json:"watched_at,omitempty"`
	Comment    *string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete=CASCADE" json:"-"`
}

// TableName specifies the table name for WatchlistEntry
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}
