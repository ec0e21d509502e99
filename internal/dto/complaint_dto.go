package dto

import (
	"time"

	"campusvoice.com/backend/internal/model"
)

type CreateComplaintRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Description string `form:"description" binding:"required"`
	CategoryID  uint   `form:"category_id" binding:"required"`
	PriorityID  uint   `form:"priority_id" binding:"required"`
}

type StaffResponseRequest struct {
	Response string `json:"response" binding:"required"`
	Status   string `json:"status" binding:"required,oneof=assigned in-progress resolved rejected"`
}

type FollowUpRequest struct {
	Note string `json:"note" binding:"required"`
}

type RatingRequest struct {
	Rating   int     `json:"rating" binding:"required,min=1,max=5"`
	Feedback *string `json:"feedback"`
}

type CourseUploadRequest struct {
	CourseTitle string `json:"course_title" binding:"required,max=255"`
	CourseCode  string `json:"course_code" binding:"required,max=50"`
	Level       int    `json:"level" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	TotalUnits  int    `json:"total_units_for_the_semester" binding:"required"`
}

type CourseUploadResult struct {
	CourseUpload *model.CourseUploadIssue `json:"course_upload"`
	Complaint    *ComplaintView           `json:"complaint"`
}

type ComplaintFilter struct {
	Search string `form:"search"`
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// StaffProfile is the public shape of a staff member; credentials never leave
// the model (PasswordHash is json:"-" there, and absent here entirely).
type StaffProfile struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	Fullname     string     `json:"fullname"`
	Department   string     `json:"department"`
	HallName     *string    `json:"hall_name,omitempty"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	Role         model.Role `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

type AssignmentView struct {
	ID            uint          `json:"id"`
	ComplaintID   string        `json:"complaint_id"`
	Staff         *StaffProfile `json:"staff,omitempty"`
	Status        string        `json:"status"`
	Response      *string       `json:"response,omitempty"`
	InternalNotes *string       `json:"internal_notes,omitempty"`
	AssignedAt    time.Time     `json:"assigned_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

type ComplaintView struct {
	ID          string          `json:"id"`
	StudentID   uint            `json:"student_id"`
	Category    CategoryView    `json:"category"`
	PriorityID  uint            `json:"priority_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	FileURL     *string         `json:"file_url,omitempty"`
	Status      string          `json:"status"`
	Assignment  *AssignmentView `json:"complaint_assignment,omitempty"`
	ClosedBy    *uint           `json:"closed_by,omitempty"`
	IsRated     bool            `json:"is_rated"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewStaffProfile maps a staff row to its public profile.
func NewStaffProfile(s *model.Staff) *StaffProfile {
	if s == nil {
		return nil
	}
	return &StaffProfile{
		ID:           s.ID,
		Email:        s.Email,
		Fullname:     s.Fullname,
		Department:   s.Department,
		HallName:     s.HallName,
		ProfileImage: s.ProfileImage,
		Role:         s.Role,
		CreatedAt:    s.CreatedAt,
	}
}

// NewComplaintView assembles the hydrated complaint+assignment view. Internal
// notes are staff-only; pass includeInternal=false for student-facing reads.
func NewComplaintView(c *model.Complaint, includeInternal bool) *ComplaintView {
	view := &ComplaintView{
		ID:        c.ID,
		StudentID: c.StudentID,
		Category: CategoryView{
			ID:   c.Category.ID,
			Name: c.Category.Name,
		},
		PriorityID:  c.PriorityID,
		Title:       c.Title,
		Description: c.Description,
		FileURL:     c.FileURL,
		Status:      c.Status,
		ClosedBy:    c.ClosedBy,
		IsRated:     c.IsRated,
		CreatedAt:   c.CreatedAt,
	}

	if c.Assignment != nil {
		view.Assignment = &AssignmentView{
			ID:          c.Assignment.ID,
			ComplaintID: c.Assignment.ComplaintID,
			Staff:       NewStaffProfile(c.Assignment.Staff),
			Status:      c.Assignment.Status,
			Response:    c.Assignment.Response,
			AssignedAt:  c.Assignment.AssignedAt,
			UpdatedAt:   c.Assignment.UpdatedAt,
			ResolvedAt:  c.Assignment.ResolvedAt,
		}
		if includeInternal {
			view.Assignment.InternalNotes = c.Assignment.InternalNotes
		}
	}

	return view
}

// NewComplaintViews maps a list of hydrated complaints.
func NewComplaintViews(complaints []*model.Complaint, includeInternal bool) []*ComplaintView {
	views := make([]*ComplaintView, 0, len(complaints))
	for _, c := range complaints {
		views = append(views, NewComplaintView(c, includeInternal))
	}
	return views
}
