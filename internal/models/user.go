// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the Ripple application. Password holds the
// bcrypt digest, never the plaintext; accounts created through an external
// provider carry a random digest that no password verifies against.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Provider  string         `json:"provider,omitempty"`
	Profile   *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Profile holds the user-editable presentation fields. Every user owns at
// most one profile; it is created at registration and backfilled lazily on
// first profile view for accounts that predate it.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Location  string    `json:"location"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
