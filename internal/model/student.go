package model

import "time"

type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MatricNo     string    `gorm:"size:50;uniqueIndex;not null" json:"matric_no"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Fullname     string    `gorm:"size:100;not null" json:"fullname"`
	Department   string    `gorm:"size:100;not null" json:"department"`
	School       string    `gorm:"size:100;not null" json:"school"`
	HallName     *string   `gorm:"size:100" json:"hall_name,omitempty"`
	ProfileImage *string   `gorm:"type:text" json:"profile_image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
