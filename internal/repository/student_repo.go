package repository

import (
	"context"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMatricNo(ctx context.Context, matricNo string) (bool, error)
	UpdateProfileImage(ctx context.Context, id uint, url string) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepository) ExistsByMatricNo(ctx context.Context, matricNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("matric_no = ?", matricNo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *studentRepository) UpdateProfileImage(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("id = ?", id).
		Update("profile_image", url).Error
}
