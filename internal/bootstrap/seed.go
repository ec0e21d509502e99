package bootstrap

import (
	"log"

	"campusvoice.com/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.Staff{},
		&model.Student{},
		&model.ComplaintCategory{},
		&model.ComplaintType{},
		&model.Priority{},
		&model.Complaint{},
		&model.ComplaintAssignment{},
		&model.Rating{},
		&model.Course{},
		&model.CourseUploadIssue{},
		&model.Notification{},
	)
}

// SeedReferenceData inserts the fixed roles, categories and priorities the
// routing policy addresses by id. Inserts are id-pinned and idempotent.
func SeedReferenceData(db *gorm.DB) error {
	roles := []model.Role{
		{ID: model.RoleHallAdmin, Name: "hall-admin"},
		{ID: model.RoleHOD, Name: "head-of-department"},
		{ID: model.RoleBursar, Name: "bursar"},
		{ID: model.RoleHallPorter, Name: "hall-porter"},
		{ID: model.RoleSecretary, Name: "secretary"},
		{ID: model.RoleBursaryStaff, Name: "bursary-staff"},
	}
	for _, role := range roles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("id = ?", role.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	categories := []model.ComplaintCategory{
		{ID: model.CategoryHall, Name: "Hall"},
		{ID: model.CategoryCourse, Name: "Course"},
		{ID: model.CategoryBursary, Name: "Bursary"},
	}
	for _, category := range categories {
		var count int64
		if err := db.Model(&model.ComplaintCategory{}).
			Where("id = ?", category.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	priorities := []model.Priority{
		{ID: 1, Level: "low", Description: "Can wait for the next working day"},
		{ID: 2, Level: "medium", Description: "Needs attention this week"},
		{ID: 3, Level: "high", Description: "Needs attention within 24 hours"},
	}
	for _, priority := range priorities {
		var count int64
		if err := db.Model(&model.Priority{}).
			Where("id = ?", priority.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&priority).Error; err != nil {
				return err
			}
		}
	}

	types := []model.ComplaintType{
		{CategoryID: model.CategoryHall, Name: "Broken fittings", Code: "hall-fittings"},
		{CategoryID: model.CategoryHall, Name: "Noise and conduct", Code: "hall-conduct"},
		{CategoryID: model.CategoryHall, Name: "Sanitation", Code: "hall-sanitation"},
		{CategoryID: model.CategoryCourse, Name: "Missing course upload", Code: "course-upload"},
		{CategoryID: model.CategoryCourse, Name: "Result discrepancy", Code: "course-result"},
		{CategoryID: model.CategoryBursary, Name: "Payment not reflected", Code: "bursary-payment"},
		{CategoryID: model.CategoryBursary, Name: "Refund request", Code: "bursary-refund"},
	}
	for _, complaintType := range types {
		var count int64
		if err := db.Model(&model.ComplaintType{}).
			Where("code = ?", complaintType.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&complaintType).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminStaff creates a development hall admin so the escalation path works
// out of the box. Only meant for APP_ENV=development.
func SeedAdminStaff(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Staff{}).
		Where("email = ?", "admin@campusvoice.com").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin staff already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	hall := "Unity Hall"
	admin := model.Staff{
		Email:        "admin@campusvoice.com",
		Fullname:     "Hall Administrator",
		Department:   model.DepartmentHall,
		HallName:     &hall,
		PasswordHash: string(hashed),
		RoleID:       model.RoleHallAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Seeded development admin staff (admin@campusvoice.com / admin123)")
	return nil
}
