package repository

import (
	"context"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	FindByID(ctx context.Context, id uint) (*model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// FindPeers lists colleagues in the same hall (for hall staff) or the same
	// department, excluding the staff member themselves.
	FindPeers(ctx context.Context, staff *model.Staff) ([]*model.Staff, error)
	UpdateProfileImage(ctx context.Context, id uint, url string) error
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) FindByID(ctx context.Context, id uint) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("id = ?", id).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", email).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *staffRepository) FindPeers(ctx context.Context, staff *model.Staff) ([]*model.Staff, error) {
	query := r.db.WithContext(ctx).Preload("Role").Where("id <> ?", staff.ID)

	if staff.Department == model.DepartmentHall && staff.HallName != nil {
		query = query.Where("hall_name = ?", *staff.HallName)
	} else {
		query = query.Where("department = ?", staff.Department)
	}

	var peers []*model.Staff
	if err := query.Find(&peers).Error; err != nil {
		return nil, err
	}
	return peers, nil
}

func (r *staffRepository) UpdateProfileImage(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("id = ?", id).
		Update("profile_image", url).Error
}
