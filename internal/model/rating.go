package model

import "time"

type Rating struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ComplaintID string     `gorm:"type:uuid;not null" json:"complaint_id"`
	Complaint   *Complaint `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rating      int        `gorm:"not null" json:"rating"`
	Feedback    *string    `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
