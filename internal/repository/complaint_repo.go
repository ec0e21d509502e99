package repository

import (
	"context"
	"errors"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

// ComplaintRepository is the read side of the complaint store. Every result is
// explicitly hydrated (category, assignment, assignment staff); views are
// assembled from what these queries return, never from lazy traversal.
type ComplaintRepository interface {
	FindByID(ctx context.Context, id string) (*model.Complaint, error)
	FindByIDForStudent(ctx context.Context, id string, studentID uint) (*model.Complaint, error)
	FindByStudent(ctx context.Context, studentID uint, search string) ([]*model.Complaint, error)
	// FindByStaffScope lists the staff member's queue: hall staff see
	// complaints from students in their hall, everyone else sees their
	// department's students.
	FindByStaffScope(ctx context.Context, staff *model.Staff, search string) ([]*model.Complaint, error)
	FindAssignedTo(ctx context.Context, staffID uint, search string) ([]*model.Complaint, error)
	FindResolvedBy(ctx context.Context, staffID uint) ([]*model.Complaint, error)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Assignment").
		Preload("Assignment.Staff").
		Preload("Assignment.Staff.Role")
}

func (r *complaintRepository) FindByID(ctx context.Context, id string) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.hydrated(ctx).
		Where("id = ?", id).
		First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) FindByIDForStudent(ctx context.Context, id string, studentID uint) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.hydrated(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) FindByStudent(ctx context.Context, studentID uint, search string) ([]*model.Complaint, error) {
	query := r.hydrated(ctx).Where("student_id = ?", studentID)

	if search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
	}

	var complaints []*model.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepository) FindByStaffScope(ctx context.Context, staff *model.Staff, search string) ([]*model.Complaint, error) {
	query := r.hydrated(ctx).
		Joins("JOIN students ON students.id = complaints.student_id")

	if staff.Department == model.DepartmentHall {
		if staff.HallName == nil {
			return []*model.Complaint{}, nil
		}
		query = query.Where("students.hall_name = ?", *staff.HallName)
	} else {
		query = query.Where("students.department = ?", staff.Department)
	}

	if search != "" {
		query = query.Where("LOWER(complaints.title) LIKE LOWER(?)", "%"+search+"%")
	}

	var complaints []*model.Complaint
	if err := query.Order("complaints.created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepository) FindAssignedTo(ctx context.Context, staffID uint, search string) ([]*model.Complaint, error) {
	query := r.hydrated(ctx).
		Joins("JOIN complaint_assignments ON complaint_assignments.complaint_id = complaints.id").
		Where("complaint_assignments.staff_id = ?", staffID)

	if search != "" {
		query = query.Where("LOWER(complaints.title) LIKE LOWER(?)", "%"+search+"%")
	}

	var complaints []*model.Complaint
	if err := query.Order("complaints.created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepository) FindResolvedBy(ctx context.Context, staffID uint) ([]*model.Complaint, error) {
	var complaints []*model.Complaint
	if err := r.hydrated(ctx).
		Where("closed_by = ?", staffID).
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

// IsNotFound reports whether err is gorm's empty-result error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
