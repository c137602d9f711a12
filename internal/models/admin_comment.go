package models

import "time"

// AdminCommentAction tags an audit-trail entry with the moderation action
// that produced it.
type AdminCommentAction string

const (
	// AdminActionApprove marks a comment written while approving a project.
	AdminActionApprove AdminCommentAction = "approve"
	// AdminActionReject marks a comment written while rejecting a project.
	AdminActionReject AdminCommentAction = "reject"
	// AdminActionComment marks a standalone moderation note.
	AdminActionComment AdminCommentAction = "comment"
)

// AdminComment is one entry in the moderation audit trail for a project.
// Entries are append-only. On rejection the entry is written before the
// project row is deleted, so the trail always referenced a live project at
// write time.
type AdminComment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`
	AdminID   uint `gorm:"not null" json:"admin_id"`
	// AdminUsername is a snapshot of the acting admin's username.
	AdminUsername string             `gorm:"not null" json:"admin_username"`
	Text          string             `gorm:"type:text" json:"text"`
	Action        AdminCommentAction `gorm:"type:varchar(20);not null" json:"action"`
	CreatedAt     time.Time          `json:"created_at"`
}
