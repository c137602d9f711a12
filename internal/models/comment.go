package models

import "time"

// Comment is a user comment on a project. Comments are append-only; they are
// removed only when their project is deleted.
type Comment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`
	UserID    uint `gorm:"not null" json:"user_id"`
	// Username is a snapshot of the author's username at comment time.
	Username  string    `gorm:"not null" json:"username"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
