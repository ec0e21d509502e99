package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ComplaintService drives the complaint lifecycle: intake, assignment,
// response, escalation, reassignment and closing. Every multi-statement
// mutation runs in a single transaction; the complaint status and its
// assignment status always move together.
type ComplaintService interface {
	Create(ctx context.Context, student *model.Student, req dto.CreateComplaintRequest, file *dto.UploadedFile) (*dto.ComplaintView, error)
	GetForStudent(ctx context.Context, student *model.Student, id string) (*dto.ComplaintView, error)
	ListForStudent(ctx context.Context, student *model.Student, search string) ([]*dto.ComplaintView, error)
	ListForStaffScope(ctx context.Context, staff *model.Staff, search string) ([]*dto.ComplaintView, error)
	ListAssignedTo(ctx context.Context, staff *model.Staff, search string) ([]*dto.ComplaintView, error)
	ListResolvedBy(ctx context.Context, staff *model.Staff) ([]*dto.ComplaintView, error)
	Respond(ctx context.Context, staff *model.Staff, complaintID string, req dto.StaffResponseRequest) (*dto.ComplaintView, error)
	Close(ctx context.Context, complaintID string, staff *model.Staff) (*dto.ComplaintView, error)
	Escalate(ctx context.Context, staff *model.Staff, complaintID string) (*dto.ComplaintView, error)
	Reassign(ctx context.Context, complaintID string, staffID uint) (*dto.ComplaintView, error)
	AddFollowUp(ctx context.Context, student *model.Student, complaintID, note string) error
	Rate(ctx context.Context, student *model.Student, complaintID string, req dto.RatingRequest) error
	SubmitCourseUpload(ctx context.Context, student *model.Student, req dto.CourseUploadRequest) (*dto.CourseUploadResult, error)
}

type complaintService struct {
	db            *gorm.DB
	complaintRepo repository.ComplaintRepository
	staffRepo     repository.StaffRepository
	referenceRepo repository.ReferenceRepository
	selector      AssignmentSelector
	categorizer   *Categorizer
	policy        *RoutingPolicy
	fileStorage   storage.FileStorage
	notifier      NotificationService
	search        SearchIndexer
	redisClient   *redis.Client
	rateLimit     time.Duration
}

func NewComplaintService(
	db *gorm.DB,
	complaintRepo repository.ComplaintRepository,
	staffRepo repository.StaffRepository,
	referenceRepo repository.ReferenceRepository,
	selector AssignmentSelector,
	categorizer *Categorizer,
	policy *RoutingPolicy,
	fileStorage storage.FileStorage,
	notifier NotificationService,
	search SearchIndexer,
	redisClient *redis.Client,
	rateLimit time.Duration,
) ComplaintService {
	return &complaintService{
		db:            db,
		complaintRepo: complaintRepo,
		staffRepo:     staffRepo,
		referenceRepo: referenceRepo,
		selector:      selector,
		categorizer:   categorizer,
		policy:        policy,
		fileStorage:   fileStorage,
		notifier:      notifier,
		search:        search,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
	}
}

func (s *complaintService) Create(ctx context.Context, student *model.Student, req dto.CreateComplaintRequest, file *dto.UploadedFile) (*dto.ComplaintView, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, model.RecipientStudent, student.ID, "submit_complaint", s.rateLimit)
	if err != nil {
		log.Printf("rate limit check failed, allowing request: %v", err)
	} else if !allowed {
		message := "you are submitting complaints too quickly, please wait"
		if ttl, err := GetRateLimitTTL(ctx, s.redisClient, model.RecipientStudent, student.ID, "submit_complaint"); err == nil && ttl > 0 {
			message = fmt.Sprintf("you are submitting complaints too quickly, try again in %s", ttl.Round(time.Second))
		}
		return nil, apperror.New(0, message, apperror.ErrRateLimited)
	}

	decision := s.categorizer.Categorize(ctx, req.Title, req.Description, req.CategoryID)

	if _, err := s.referenceRepo.FindCategoryByID(ctx, decision.CategoryID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.New(0, fmt.Sprintf("category %d does not exist", decision.CategoryID), apperror.ErrInvalidInput)
		}
		return nil, apperror.Internal(err)
	}

	// Upload before touching the database: a failed upload must not leave an
	// orphaned complaint row pointing nowhere.
	var fileURL *string
	if file != nil && file.Reader != nil {
		url, err := s.fileStorage.Upload(ctx, file.Reader, "complaints", file.FileName)
		if err != nil {
			return nil, apperror.Upstream("failed to upload complaint attachment", err)
		}
		fileURL = &url
	}

	var complaint *model.Complaint
	var assignment *model.ComplaintAssignment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		complaint, assignment, txErr = s.createComplaintTx(ctx, tx, student, req.Title, req.Description, decision.CategoryID, req.PriorityID, fileURL)
		return txErr
	})
	if err != nil {
		return nil, s.mutationError(err)
	}

	hydrated, err := s.complaintRepo.FindByID(ctx, complaint.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifyAsync(model.RecipientStudent, student.ID, &complaint.ID,
		"Complaint received",
		fmt.Sprintf("Your complaint %q has been received and is being routed.", complaint.Title))
	if assignment != nil {
		s.notifyAsync(model.RecipientStaff, assignment.StaffID, &complaint.ID,
			"New complaint assigned",
			fmt.Sprintf("Complaint %q has been assigned to you.", complaint.Title))
	}
	s.indexAsync(hydrated)

	return dto.NewComplaintView(hydrated, false), nil
}

// createComplaintTx persists the complaint as pending and immediately runs the
// assignment selector in the same transaction: either both the complaint and
// its assignment commit, or neither does. A nil assignment is the explicit
// "no eligible staff" terminal state: the complaint stays pending.
func (s *complaintService) createComplaintTx(ctx context.Context, tx *gorm.DB, student *model.Student, title, description string, categoryID, priorityID uint, fileURL *string) (*model.Complaint, *model.ComplaintAssignment, error) {
	complaint := &model.Complaint{
		StudentID:   student.ID,
		CategoryID:  categoryID,
		PriorityID:  priorityID,
		Title:       title,
		Description: description,
		FileURL:     fileURL,
		Status:      model.ComplaintStatusPending,
	}

	if err := tx.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, nil, err
	}

	assignment, err := s.selector.Assign(ctx, tx, complaint, student)
	if err != nil {
		return nil, nil, err
	}
	if assignment == nil {
		log.Printf("no eligible staff for complaint %s (category %d); left unassigned", complaint.ID, categoryID)
	}

	return complaint, assignment, nil
}

func (s *complaintService) GetForStudent(ctx context.Context, student *model.Student, id string) (*dto.ComplaintView, error) {
	complaint, err := s.complaintRepo.FindByIDForStudent(ctx, id, student.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("complaint with id %s not found", id))
		}
		return nil, apperror.Internal(err)
	}
	return dto.NewComplaintView(complaint, false), nil
}

func (s *complaintService) ListForStudent(ctx context.Context, student *model.Student, search string) ([]*dto.ComplaintView, error) {
	complaints, err := s.complaintRepo.FindByStudent(ctx, student.ID, search)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dto.NewComplaintViews(complaints, false), nil
}

func (s *complaintService) ListForStaffScope(ctx context.Context, staff *model.Staff, search string) ([]*dto.ComplaintView, error) {
	complaints, err := s.complaintRepo.FindByStaffScope(ctx, staff, search)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dto.NewComplaintViews(complaints, true), nil
}

func (s *complaintService) ListAssignedTo(ctx context.Context, staff *model.Staff, search string) ([]*dto.ComplaintView, error) {
	complaints, err := s.complaintRepo.FindAssignedTo(ctx, staff.ID, search)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dto.NewComplaintViews(complaints, true), nil
}

func (s *complaintService) ListResolvedBy(ctx context.Context, staff *model.Staff) ([]*dto.ComplaintView, error) {
	complaints, err := s.complaintRepo.FindResolvedBy(ctx, staff.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dto.NewComplaintViews(complaints, true), nil
}

func (s *complaintService) Respond(ctx context.Context, staff *model.Staff, complaintID string, req dto.StaffResponseRequest) (*dto.ComplaintView, error) {
	// A "resolved" response is a close, not an intermediate update.
	if req.Status == model.ComplaintStatusResolved {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.updateAssignmentResponseTx(ctx, tx, complaintID, req.Response); err != nil {
				return err
			}
			return s.closeTx(ctx, tx, complaintID, staff)
		})
		if err != nil {
			return nil, s.mutationError(err)
		}
		return s.staffView(ctx, complaintID, true)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).
			Model(&model.Complaint{}).
			Where("id = ?", complaintID).
			Update("status", req.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return s.updateAssignmentResponseTx(ctx, tx, complaintID, req.Response)
	})
	if err != nil {
		return nil, s.mutationError(err)
	}

	return s.staffView(ctx, complaintID, false)
}

func (s *complaintService) updateAssignmentResponseTx(ctx context.Context, tx *gorm.DB, complaintID, response string) error {
	return tx.WithContext(ctx).
		Model(&model.ComplaintAssignment{}).
		Where("complaint_id = ?", complaintID).
		Update("response", response).Error
}

func (s *complaintService) Close(ctx context.Context, complaintID string, staff *model.Staff) (*dto.ComplaintView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.closeTx(ctx, tx, complaintID, staff)
	})
	if err != nil {
		return nil, s.mutationError(err)
	}
	return s.staffView(ctx, complaintID, true)
}

// closeTx resolves both sides of the pair: complaint status + closer, and
// assignment status + resolution timestamp.
func (s *complaintService) closeTx(ctx context.Context, tx *gorm.DB, complaintID string, staff *model.Staff) error {
	var assignment model.ComplaintAssignment
	if err := tx.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		First(&assignment).Error; err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound(fmt.Sprintf("complaint with id %s has no assignment", complaintID))
		}
		return err
	}

	if err := tx.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", complaintID).
		Updates(map[string]interface{}{
			"status":    model.ComplaintStatusResolved,
			"closed_by": staff.ID,
		}).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	return tx.WithContext(ctx).
		Model(&model.ComplaintAssignment{}).
		Where("id = ?", assignment.ID).
		Updates(map[string]interface{}{
			"status":      model.AssignmentStatusResolved,
			"resolved_at": now,
		}).Error
}

func (s *complaintService) Escalate(ctx context.Context, staff *model.Staff, complaintID string) (*dto.ComplaintView, error) {
	if _, err := s.complaintRepo.FindByID(ctx, complaintID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return nil, apperror.Internal(err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := s.selector.LeastLoadedInDepartment(ctx, tx, s.policy.EscalationRole(), staff.Department)
		if err != nil {
			return err
		}
		if admin == nil {
			return apperror.NotFound(fmt.Sprintf("no admin available for department %s", staff.Department))
		}

		// Rebind the existing assignment rather than inserting a second row;
		// a complaint has at most one assignment at a time.
		now := time.Now().UTC()
		var assignment model.ComplaintAssignment
		err = tx.WithContext(ctx).Where("complaint_id = ?", complaintID).First(&assignment).Error
		switch {
		case err == nil:
			return tx.WithContext(ctx).
				Model(&model.ComplaintAssignment{}).
				Where("id = ?", assignment.ID).
				Updates(map[string]interface{}{
					"staff_id":    admin.ID,
					"status":      model.AssignmentStatusEscalated,
					"assigned_at": now,
				}).Error
		case repository.IsNotFound(err):
			return tx.WithContext(ctx).Create(&model.ComplaintAssignment{
				ComplaintID: complaintID,
				StaffID:     admin.ID,
				Status:      model.AssignmentStatusEscalated,
				AssignedAt:  now,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, s.mutationError(err)
	}

	view, err := s.staffView(ctx, complaintID, false)
	if err != nil {
		return nil, err
	}
	if view.Assignment != nil && view.Assignment.Staff != nil {
		s.notifyAsync(model.RecipientStaff, view.Assignment.Staff.ID, &view.ID,
			"Complaint escalated to you",
			fmt.Sprintf("Complaint %q has been escalated to you by %s.", view.Title, staff.Fullname))
	}
	return view, nil
}

func (s *complaintService) Reassign(ctx context.Context, complaintID string, staffID uint) (*dto.ComplaintView, error) {
	if _, err := s.complaintRepo.FindByID(ctx, complaintID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return nil, apperror.Internal(err)
	}

	newOwner, err := s.staffRepo.FindByID(ctx, staffID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("staff with id %d not found", staffID))
		}
		return nil, apperror.Internal(err)
	}

	// Overwrites the staff reference on the one existing assignment row;
	// status and timestamps stay as they are, and repeating the call with the
	// same staff id is a no-op.
	err = s.db.WithContext(ctx).
		Model(&model.ComplaintAssignment{}).
		Where("complaint_id = ?", complaintID).
		Update("staff_id", staffID).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifyAsync(model.RecipientStaff, newOwner.ID, &complaintID,
		"Complaint reassigned to you",
		fmt.Sprintf("A complaint has been reassigned to you (%s).", complaintID))

	return s.staffView(ctx, complaintID, false)
}

func (s *complaintService) AddFollowUp(ctx context.Context, student *model.Student, complaintID, note string) error {
	if _, err := s.complaintRepo.FindByIDForStudent(ctx, complaintID, student.ID); err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return apperror.Internal(err)
	}

	err := s.db.WithContext(ctx).
		Model(&model.ComplaintAssignment{}).
		Where("complaint_id = ?", complaintID).
		Update("internal_notes", note).Error
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *complaintService) Rate(ctx context.Context, student *model.Student, complaintID string, req dto.RatingRequest) error {
	complaint, err := s.complaintRepo.FindByIDForStudent(ctx, complaintID, student.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return apperror.Internal(err)
	}

	if complaint.Status != model.ComplaintStatusResolved {
		return apperror.New(0, "only resolved complaints can be rated", apperror.ErrBadRequest)
	}
	if complaint.IsRated {
		return apperror.Conflict("complaint has already been rated")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(&model.Rating{
			ComplaintID: complaintID,
			Rating:      req.Rating,
			Feedback:    req.Feedback,
		}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).
			Model(&model.Complaint{}).
			Where("id = ?", complaintID).
			Update("is_rated", true).Error
	})
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *complaintService) SubmitCourseUpload(ctx context.Context, student *model.Student, req dto.CourseUploadRequest) (*dto.CourseUploadResult, error) {
	var issue *model.CourseUploadIssue
	var complaint *model.Complaint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course := &model.Course{Title: req.CourseTitle, Code: req.CourseCode}
		if err := tx.WithContext(ctx).
			Where("code = ?", req.CourseCode).
			FirstOrCreate(course).Error; err != nil {
			return err
		}

		issue = &model.CourseUploadIssue{
			Level:      req.Level,
			StudentID:  student.ID,
			CourseID:   course.ID,
			Reason:     req.Reason,
			TotalUnits: req.TotalUnits,
		}
		if err := tx.WithContext(ctx).Create(issue).Error; err != nil {
			return err
		}

		title := fmt.Sprintf("Course Upload Issue: %s", req.CourseCode)
		description := fmt.Sprintf("Course: %s\nLevel: %d\nReason: %s", req.CourseTitle, req.Level, req.Reason)

		var err error
		complaint, _, err = s.createComplaintTx(ctx, tx, student, title, description, model.CategoryCourse, 2, nil)
		return err
	})
	if err != nil {
		return nil, s.mutationError(err)
	}

	hydrated, err := s.complaintRepo.FindByID(ctx, complaint.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.indexAsync(hydrated)

	return &dto.CourseUploadResult{
		CourseUpload: issue,
		Complaint:    dto.NewComplaintView(hydrated, false),
	}, nil
}

// staffView reloads the hydrated complaint after a mutation. refreshIndex
// pushes the updated document to the search index and tells the student their
// complaint moved.
func (s *complaintService) staffView(ctx context.Context, complaintID string, refreshIndex bool) (*dto.ComplaintView, error) {
	complaint, err := s.complaintRepo.FindByID(ctx, complaintID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(fmt.Sprintf("complaint with id %s not found", complaintID))
		}
		return nil, apperror.Internal(err)
	}

	if refreshIndex {
		s.indexAsync(complaint)
		s.notifyAsync(model.RecipientStudent, complaint.StudentID, &complaint.ID,
			"Complaint resolved",
			fmt.Sprintf("Your complaint %q has been resolved.", complaint.Title))
	}

	return dto.NewComplaintView(complaint, true), nil
}

func (s *complaintService) mutationError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

// notifyAsync hands the notification to a goroutine so the request path never
// blocks on, or fails because of, delivery.
func (s *complaintService) notifyAsync(kind string, recipientID uint, complaintID *string, subject, message string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, kind, recipientID, complaintID, subject, message); err != nil {
			log.Printf("failed to send notification to %s %d: %v", kind, recipientID, err)
		}
	}()
}

func (s *complaintService) indexAsync(complaint *model.Complaint) {
	if s.search == nil {
		return
	}
	doc := *complaint
	go func() {
		if err := s.search.IndexComplaint(&doc); err != nil {
			log.Printf("failed to index complaint %s: %v", doc.ID, err)
		}
	}()
}
