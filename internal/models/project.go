package models

import "time"

// Project is an uploaded project archive. It starts in the pending state
// (IsApproved false) and becomes publicly visible only once an admin approves
// it. Rejection or owner deletion removes the row entirely.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// Username is a snapshot of the owner's username at upload time. It is
	// not rewritten when the owner renames; reads that need the current name
	// resolve through UserID.
	Username string `gorm:"not null" json:"username"`
	// FileName is the original filename as uploaded; FilePath is the
	// collision-resistant stored name under the projects upload directory.
	FileName      string    `gorm:"not null" json:"file_name"`
	FilePath      string    `gorm:"not null" json:"-"`
	DownloadCount int64     `gorm:"not null;default:0" json:"download_count"`
	IsApproved    bool      `gorm:"not null;default:false;index" json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
