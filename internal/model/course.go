package model

import "time"

type Course struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:255;not null" json:"title"`
	Code  string `gorm:"size:50;uniqueIndex;not null" json:"code"`
}

// CourseUploadIssue records a missing course-upload report; each issue also
// spawns a course-category complaint so it flows through normal routing.
type CourseUploadIssue struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Level      int       `gorm:"not null" json:"level"`
	StudentID  uint      `gorm:"not null" json:"student_id"`
	Student    *Student  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID   uint      `gorm:"not null" json:"course_id"`
	Course     *Course   `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Reason     string    `gorm:"type:text;not null" json:"reason"`
	TotalUnits int       `gorm:"not null" json:"total_units"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
