package models

import (
	"testing"
	"time"
)

func TestUser_TableName(t *testing.T) {
	user := User{}
	expected := "users"
	if user.TableName() != expected {
		t.Errorf("expected table name %s, got %s", expected, user.TableName())
	}
}

func TestWatchlistEntry_TableName(t *testing.T) {
	entry := WatchlistEntry{}
	expected := "watchlist_entries"
	if entry.TableName() != expected {
		t.Errorf("expected table name %s, got %s", expected, entry.TableName())
	}
}

func TestMediaType_Constants(t *testing.T) {
	tests := []struct {
		mediaType MediaType
		expected  string
	}{
		{MediaTypeMovie, "movie"},
		{MediaTypeTV, "tv"},
		{MediaTypeAll, "all"},
	}

	for _, tc := range tests {
		if string(tc.mediaType) != tc.expected {
			t.Errorf("expected %s, got %s", tc.expected, tc.mediaType)
		}
	}
}

func TestMediaType_Valid(t *testing.T) {
	tests := []struct {
		mediaType MediaType
		valid     bool
	}{
		{MediaTypeMovie, true},
		{MediaTypeTV, true},
		{MediaTypeAll, false},
		{MediaType("person"), false},
		{MediaType(""), false},
	}

	for _, tc := range tests {
		if tc.mediaType.Valid() != tc.valid {
			t.Errorf("expected Valid()=%v for %q", tc.valid, tc.mediaType)
		}
	}
}

func TestWatchlistEntry_Creation(t *testing.T) {
	title := "The Matrix"
	poster := "/poster.jpg"
	entry := WatchlistEntry{
		ID:         "entry-1",
		UserID:     "user-1",
		TMDBID:     603,
		Type:       MediaTypeMovie,
		Title:      &title,
		PosterPath: &poster,
		CreatedAt:  time.Now(),
	}

	if entry.Watched {
		t.Error("expected new entry to be unwatched")
	}
	if entry.WatchedAt != nil {
		t.Error("expected new entry to have no watched timestamp")
	}
	if entry.Type != MediaTypeMovie {
		t.Errorf("expected type movie, got %s", entry.Type)
	}
}
