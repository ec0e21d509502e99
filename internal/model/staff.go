package model

import "time"

// Seeded role ids. The routing policy and escalation logic address roles by id.
const (
	RoleHallAdmin    uint = 1
	RoleHOD          uint = 2
	RoleBursar       uint = 3
	RoleHallPorter   uint = 4
	RoleSecretary    uint = 5
	RoleBursaryStaff uint = 6
)

// DepartmentHall marks hall-operations staff; their queue is scoped by hall
// name instead of department name.
const DepartmentHall = "Hall"

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Fullname     string    `gorm:"size:100;not null" json:"fullname"`
	Department   string    `gorm:"size:100;not null" json:"department"`
	HallName     *string   `gorm:"size:100" json:"hall_name,omitempty"` // only for hall staff
	PasswordHash string    `gorm:"size:255" json:"-"`
	ProfileImage *string   `gorm:"type:text" json:"profile_image,omitempty"`
	RoleID       uint      `gorm:"not null" json:"role_id"`
	Role         Role      `gorm:"constraint:OnDelete:CASCADE" json:"role"`
	ReportsTo    *uint     `json:"reports_to,omitempty"` // supervising HOD, bursar or hall admin
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName pins the table name; the selector's raw joins depend on it.
func (Staff) TableName() string {
	return "staffs"
}
