package repository

import (
	"context"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

// ReferenceRepository serves the static directory data: categories, complaint
// types and priorities.
type ReferenceRepository interface {
	FindCategoryByID(ctx context.Context, id uint) (*model.ComplaintCategory, error)
	ListCategories(ctx context.Context) ([]*model.ComplaintCategory, error)
	ListTypesByCategory(ctx context.Context, categoryID uint) ([]*model.ComplaintType, error)
	ListPriorities(ctx context.Context) ([]*model.Priority, error)
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) FindCategoryByID(ctx context.Context, id uint) (*model.ComplaintCategory, error) {
	var category model.ComplaintCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *referenceRepository) ListCategories(ctx context.Context) ([]*model.ComplaintCategory, error) {
	var categories []*model.ComplaintCategory
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *referenceRepository) ListTypesByCategory(ctx context.Context, categoryID uint) ([]*model.ComplaintType, error) {
	var types []*model.ComplaintType
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *referenceRepository) ListPriorities(ctx context.Context) ([]*model.Priority, error) {
	var priorities []*model.Priority
	if err := r.db.WithContext(ctx).Order("id").Find(&priorities).Error; err != nil {
		return nil, err
	}
	return priorities, nil
}
