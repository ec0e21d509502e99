package service

import (
	"context"

	"campusvoice.com/backend/internal/model"
	"gorm.io/gorm"
)

// AssignmentSelector picks the staff member who will own a complaint and binds
// the two inside the caller's transaction.
type AssignmentSelector interface {
	// Assign selects the least-loaded eligible staff member for the complaint
	// and, when one exists, marks the complaint assigned and inserts the
	// assignment row through tx. A (nil, nil) return means no staff carries
	// the required role anywhere, a valid terminal outcome rather than an error:
	// the complaint stays pending and a human has to triage it.
	Assign(ctx context.Context, tx *gorm.DB, complaint *model.Complaint, student *model.Student) (*model.ComplaintAssignment, error)
	// LeastLoadedInDepartment picks the least-loaded staff member with the
	// given role in a department. Used by escalation; nil when none exists.
	LeastLoadedInDepartment(ctx context.Context, tx *gorm.DB, roleID uint, department string) (*model.Staff, error)
}

type assignmentSelector struct {
	policy *RoutingPolicy
}

func NewAssignmentSelector(policy *RoutingPolicy) AssignmentSelector {
	return &assignmentSelector{policy: policy}
}

func (s *assignmentSelector) Assign(ctx context.Context, tx *gorm.DB, complaint *model.Complaint, student *model.Student) (*model.ComplaintAssignment, error) {
	rule := s.policy.RuleFor(complaint.CategoryID)

	staff, err := s.pick(ctx, tx, rule, student)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, nil
	}

	if err := tx.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", complaint.ID).
		Update("status", model.ComplaintStatusAssigned).Error; err != nil {
		return nil, err
	}
	complaint.Status = model.ComplaintStatusAssigned

	assignment := &model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     staff.ID,
		Status:      model.AssignmentStatusAssigned,
	}
	if err := tx.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}

	assignment.Staff = staff
	return assignment, nil
}

// pick runs the scoped least-loaded query, falling back to the role-wide pool
// when the scope matches nobody.
func (s *assignmentSelector) pick(ctx context.Context, tx *gorm.DB, rule RoutingRule, student *model.Student) (*model.Staff, error) {
	switch rule.Scope {
	case ScopeHall:
		if student.HallName != nil {
			staff, err := s.leastLoaded(ctx, tx, rule.RoleID, "staffs.hall_name = ?", *student.HallName)
			if err != nil || staff != nil {
				return staff, err
			}
		}
	case ScopeDepartment:
		staff, err := s.leastLoaded(ctx, tx, rule.RoleID, "staffs.department = ?", student.Department)
		if err != nil || staff != nil {
			return staff, err
		}
	}

	return s.leastLoaded(ctx, tx, rule.RoleID, "", nil)
}

// leastLoaded orders eligible staff by their current assignment count.
//
// The count is an optimistic read: two concurrent submissions can both see the
// same least-loaded staff member before either commits. That skews load, never
// consistency, so it is deliberately not serialized.
func (s *assignmentSelector) leastLoaded(ctx context.Context, tx *gorm.DB, roleID uint, cond string, arg interface{}) (*model.Staff, error) {
	query := tx.WithContext(ctx).
		Model(&model.Staff{}).
		Select("staffs.*").
		Joins("LEFT JOIN complaint_assignments ON complaint_assignments.staff_id = staffs.id").
		Where("staffs.role_id = ?", roleID).
		Group("staffs.id").
		Order("COUNT(complaint_assignments.id) ASC, staffs.id ASC").
		Limit(1)

	if cond != "" {
		query = query.Where(cond, arg)
	}

	var candidates []model.Staff
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	staff := candidates[0]
	if err := tx.WithContext(ctx).First(&staff.Role, staff.RoleID).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (s *assignmentSelector) LeastLoadedInDepartment(ctx context.Context, tx *gorm.DB, roleID uint, department string) (*model.Staff, error) {
	return s.leastLoaded(ctx, tx, roleID, "staffs.department = ?", department)
}
