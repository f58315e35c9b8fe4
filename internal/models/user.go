package models

import "time"

// AuthProvider identifies how an account was created
type AuthProvider string

const (
	ProviderCredentials AuthProvider = "credentials"
	ProviderGoogle      AuthProvider = "google"
)

// User represents a registered account. OAuth-provisioned accounts have no
// password hash and cannot change passwords.
type User struct {
	ID           string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name         *string      `gorm:"type:varchar(255)" json:"name,omitempty"`
	PasswordHash *string      `gorm:"type:varchar(255)" json:"-"`
	Image        *string      `gorm:"type:text" json:"image,omitempty"`
	Provider     AuthProvider `gorm:"type:varchar(20);not null;default:credentials" json:"provider"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
