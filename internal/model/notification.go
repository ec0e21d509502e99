package model

import "time"

// Recipient kinds for notifications; students and staff live in separate
// tables, so the pair (RecipientKind, RecipientID) identifies the user.
const (
	RecipientStudent = "student"
	RecipientStaff   = "staff"
)

type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RecipientKind string    `gorm:"size:10;not null;index:idx_notifications_recipient" json:"recipient_kind"`
	RecipientID   uint      `gorm:"not null;index:idx_notifications_recipient" json:"recipient_id"`
	ComplaintID   *string   `gorm:"type:uuid" json:"complaint_id,omitempty"`
	Subject       string    `gorm:"size:255;not null" json:"subject"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	IsRead        bool      `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
