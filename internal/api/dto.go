package api

import (
	"github.com/mwielgos/kinoteka/internal/external/tmdb"
	"github.com/mwielgos/kinoteka/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserResponse represents account data exposed to the client
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	Provider string  `json:"provider"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Image:    u.Image,
		Provider: string(u.Provider),
	}
}

// SessionResponse carries the signed-in account, or null
type SessionResponse struct {
	User *UserResponse `json:"user"`
}

// TokenResponse is returned after a successful register or login
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     *string `json:"name,omitempty"`
}

// LoginRequest represents a credentials sign-in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// BrowseResponse is one page of titles plus the signed-in user's watchlist
// membership index (empty for anonymous requests)
type BrowseResponse struct {
	Results    []tmdb.Title      `json:"results"`
	TotalPages int               `json:"total_pages"`
	Watchlist  map[string]string `json:"watchlist"`
}

// HomeResponse groups the landing page sections
type HomeResponse struct {
	Popular    []tmdb.Title `json:"popular"`
	NowPlaying []tmdb.Title `json:"now_playing"`
	PopularTV  []tmdb.Title `json:"popular_tv"`
}

// MovieDetailResponse is a movie detail page payload
type MovieDetailResponse struct {
	*tmdb.MovieDetails
	WatchProviders *tmdb.WatchProviders `json:"watch_providers,omitempty"`
}

// TVDetailResponse is a TV show detail page payload
type TVDetailResponse struct {
	*tmdb.TVDetails
	WatchProviders *tmdb.WatchProviders `json:"watch_providers,omitempty"`
}

// PersonDetailResponse is a person page payload: the profile plus the
// movies the person is known for
type PersonDetailResponse struct {
	*tmdb.PersonDetails
	ProfileURL *string             `json:"profile_url"`
	Credits    []tmdb.PersonCredit `json:"credits"`
}

// WatchlistResponse carries the full list plus the membership index
type WatchlistResponse struct {
	Entries   []models.WatchlistEntry `json:"entries"`
	Watchlist map[string]string       `json:"watchlist"`
}

// AddWatchlistRequest represents an add-to-watchlist request
type AddWatchlistRequest struct {
	TMDBID     int              `json:"tmdb_id" binding:"required"`
	Type       models.MediaType `json:"type" binding:"required"`
	Title      *string          `json:"title,omitempty"`
	PosterPath *string          `json:"poster_path,omitempty"`
	Overview   *string          `json:"overview,omitempty"`
}

// UpdateWatchlistRequest updates the watched flag and/or the comment.
// At least one field must be present.
type UpdateWatchlistRequest struct {
	Watched *bool   `json:"watched,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// UpdateNameRequest represents a display name change
type UpdateNameRequest struct {
	Name string `json:"name"`
}

// UpdatePasswordRequest represents a password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}
