// Package testing provides shared helpers for persistence-level tests.
package testing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mwielgos/kinoteka/internal/models"
)

// TestDB creates an in-memory SQLite database for testing
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.WatchlistEntry{},
	); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// CleanupDB removes all records from test database tables
func CleanupDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	db.Exec("DELETE FROM watchlist_entries")
	db.Exec("DELETE FROM users")
}

// CreateUser creates a test user
func CreateUser(db *gorm.DB, overrides ...func(*models.User)) *models.User {
	name := "Test User"
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		Name:      &name,
		Provider:  models.ProviderCredentials,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(user)
	}

	db.Create(user)
	return user
}

// CreateWatchlistEntry creates a test watchlist entry
func CreateWatchlistEntry(db *gorm.DB, userID string, overrides ...func(*models.WatchlistEntry)) *models.WatchlistEntry {
	title := "Test Movie"
	poster := "/poster.jpg"
	entry := &models.WatchlistEntry{
		ID:         uuid.New().String(),
		UserID:     userID,
		TMDBID:     603,
		Type:       models.MediaTypeMovie,
		Title:      &title,
		PosterPath: &poster,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	for _, override := range overrides {
		override(entry)
	}

	db.Create(entry)
	return entry
}
