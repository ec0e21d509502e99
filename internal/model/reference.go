package model

// Seeded complaint category ids. The category drives the routing strategy.
const (
	CategoryHall    uint = 1
	CategoryCourse  uint = 2
	CategoryBursary uint = 3
)

type ComplaintCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type ComplaintType struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Code       string `gorm:"size:50;uniqueIndex;not null" json:"code"`
}

type Priority struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Level       string `gorm:"size:50;not null" json:"level"`
	Description string `gorm:"type:text" json:"description"`
}
