// Package users manages account records: registration, credential checks and
// profile edits. OAuth-provisioned accounts are handled here too; they carry
// no password hash and cannot use password operations.
package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/models"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrPasswordTooShort    = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordUnavailable = errors.New("password change not available for this account")
	ErrUserNotFound        = errors.New("user not found")
)

// Service provides account persistence operations
type Service struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewService creates a users service backed by the given database
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		logger: logger.AppLogger(),
	}
}

// Register creates a credentials account. The email must be unused and the
// password long enough; the name is optional.
func (s *Service) Register(email, password string, name *string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, ErrEmailRequired
	}
	if len(password) < minPasswordLength {
		return models.User{}, ErrPasswordTooShort
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to check existing account: %w", err)
	}
	if count > 0 {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         trimmedOrNil(name),
		PasswordHash: &hashStr,
		Provider:     models.ProviderCredentials,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{"user_id": user.ID}).Info("account registered")
	return user, nil
}

// Authenticate verifies credentials and returns the account. OAuth accounts
// without a hash fail the same way as a wrong password so the response does
// not leak which accounts exist.
func (s *Service) Authenticate(email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load account: %w", err)
	}
	if user.PasswordHash == nil {
		return models.User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// FindOrCreateOAuth returns the account matching an OAuth identity, creating
// it on first sign-in. OAuth accounts are created without a password hash;
// the provider-hosted avatar URL is stored as the image.
func (s *Service) FindOrCreateOAuth(provider models.AuthProvider, email string, name, image *string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return models.User{}, ErrEmailRequired
	}

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("failed to load account: %w", err)
	}

	user = models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     trimmedOrNil(name),
		Image:    image,
		Provider: provider,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to provision account: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  user.ID,
		"provider": string(provider),
	}).Info("account provisioned via oauth")
	return user, nil
}

// Get returns the account with the given id.
func (s *Service) Get(id string) (models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load account: %w", err)
	}
	return user, nil
}

// UpdateName sets the display name. A blank name clears it.
func (s *Service) UpdateName(id, name string) (models.User, error) {
	value := trimmedOrNil(&name)
	if err := s.update(id, map[string]interface{}{"name": value}); err != nil {
		return models.User{}, err
	}
	return s.Get(id)
}

// UpdatePassword replaces the password after verifying the current one.
// Accounts provisioned via OAuth have no hash and are rejected.
func (s *Service) UpdatePassword(id, currentPassword, newPassword string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return ErrPasswordUnavailable
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)
	return s.update(id, map[string]interface{}{"password_hash": &hashStr})
}

// SetImage stores the avatar reference (a local upload path or an external
// OAuth URL).
func (s *Service) SetImage(id, image string) (models.User, error) {
	if err := s.update(id, map[string]interface{}{"image": &image}); err != nil {
		return models.User{}, err
	}
	return s.Get(id)
}

// ClearImage removes the avatar reference.
func (s *Service) ClearImage(id string) (models.User, error) {
	if err := s.update(id, map[string]interface{}{"image": nil}); err != nil {
		return models.User{}, err
	}
	return s.Get(id)
}

func (s *Service) update(id string, values map[string]interface{}) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
