// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultProfileImage is the sentinel filename for users without a custom
// profile image. It is never deleted from disk.
const DefaultProfileImage = "default-profile.png"

// User represents a registered account. Username and email are unique
// case-insensitively; lookups always compare case-folded values.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Bio          string         `gorm:"type:text" json:"bio"`
	ProfileImage string         `gorm:"default:'default-profile.png'" json:"profile_image"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Projects []Project `gorm:"foreignKey:UserID" json:"projects,omitempty"`

	// FollowerCount and FollowingCount are computed from the follows table.
	FollowerCount  int64 `gorm:"-" json:"follower_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
	// IsFollowedByCurrentUser is derived per request for the viewing user.
	IsFollowedByCurrentUser bool `gorm:"-" json:"is_followed_by_current_user"`
}

// HasCustomProfileImage reports whether the user replaced the default image.
func (u *User) HasCustomProfileImage() bool {
	return u.ProfileImage != "" && u.ProfileImage != DefaultProfileImage
}
