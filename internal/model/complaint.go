package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint statuses. The complaint and its assignment move together: a
// resolved complaint always has a resolved assignment.
const (
	ComplaintStatusPending    = "pending"
	ComplaintStatusAssigned   = "assigned"
	ComplaintStatusInProgress = "in-progress"
	ComplaintStatusResolved   = "resolved"
	ComplaintStatusRejected   = "rejected"
)

// Assignment statuses.
const (
	AssignmentStatusUnassigned = "unassigned"
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusResolved   = "resolved"
	AssignmentStatusEscalated  = "escalated"
)

type Complaint struct {
	ID          string            `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uint              `gorm:"not null" json:"student_id"`
	Student     *Student          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID  uint              `gorm:"not null" json:"category_id"`
	Category    ComplaintCategory `json:"category"`
	PriorityID  uint              `gorm:"not null" json:"priority_id"`
	Priority    Priority          `json:"-"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text;not null" json:"description"`
	FileURL     *string           `gorm:"type:text" json:"file_url,omitempty"`
	Status      string            `gorm:"size:20;not null" json:"status"`
	ClosedBy    *uint             `json:"closed_by,omitempty"`
	IsRated     bool              `gorm:"default:false" json:"is_rated"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`

	Assignment *ComplaintAssignment `gorm:"foreignKey:ComplaintID" json:"assignment,omitempty"`
}

// Complaint ids are opaque uuids so they cannot be guessed or enumerated.
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type ComplaintAssignment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ComplaintID   string     `gorm:"type:uuid;uniqueIndex;not null" json:"complaint_id"`
	StaffID       uint       `gorm:"not null" json:"staff_id"`
	Staff         *Staff     `json:"staff,omitempty"`
	Status        string     `gorm:"size:20;not null" json:"status"`
	Response      *string    `gorm:"type:text" json:"response,omitempty"`
	InternalNotes *string    `gorm:"type:text" json:"internal_notes,omitempty"`
	AssignedAt    time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}
