package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newComplaintService(t *testing.T, db *gorm.DB, store storage.FileStorage) ComplaintService {
	t.Helper()

	policy := DefaultRoutingPolicy()
	return NewComplaintService(
		db,
		repository.NewComplaintRepository(db),
		repository.NewStaffRepository(db),
		repository.NewReferenceRepository(db),
		NewAssignmentSelector(policy),
		NewCategorizer(nil),
		policy,
		store,
		nil,
		nil,
		nil,
		time.Second,
	)
}

func TestCreateAssignsAndReturnsHydratedView(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))

	view, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Noisy roommate",
		Description: "My roommate plays loud music at night",
		CategoryID:  model.CategoryHall,
		PriorityID:  2,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintStatusAssigned, view.Status)
	assert.Equal(t, "Hall", view.Category.Name)
	require.NotNil(t, view.Assignment)
	require.NotNil(t, view.Assignment.Staff)
	assert.Equal(t, porter.ID, view.Assignment.Staff.ID)
	assert.Equal(t, model.AssignmentStatusAssigned, view.Assignment.Status)
	// Student-facing views never carry internal notes.
	assert.Nil(t, view.Assignment.InternalNotes)
}

func TestCreateWithoutEligibleStaffStaysPending(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))

	view, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Broken window",
		Description: "The window in my room does not close",
		CategoryID:  model.CategoryHall,
		PriorityID:  1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintStatusPending, view.Status)
	assert.Nil(t, view.Assignment)
}

func TestConcurrentCreatesShareSingleEligibleStaff(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	first := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	second := seedStudent(t, db, "Chemistry", strptr("Unity Hall"))

	var wg sync.WaitGroup
	views := make([]*dto.ComplaintView, 2)
	errs := make([]error, 2)
	for i, student := range []*model.Student{first, second} {
		wg.Add(1)
		go func(i int, student *model.Student) {
			defer wg.Done()
			views[i], errs[i] = svc.Create(context.Background(), student, dto.CreateComplaintRequest{
				Title:       "Leaking ceiling",
				Description: "Water drips into the room whenever it rains",
				CategoryID:  model.CategoryHall,
				PriorityID:  2,
			}, nil)
		}(i, student)
	}
	wg.Wait()

	// Both submissions land on the lone porter; neither blocks the other.
	for i := range views {
		require.NoError(t, errs[i])
		assert.Equal(t, model.ComplaintStatusAssigned, views[i].Status)
		require.NotNil(t, views[i].Assignment)
		require.NotNil(t, views[i].Assignment.Staff)
		assert.Equal(t, porter.ID, views[i].Assignment.Staff.ID)
	}
	assert.EqualValues(t, 2, assignmentCount(t, db, porter.ID))
}

func TestCreateUploadsAttachmentBeforePersisting(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStorage{}
	svc := newComplaintService(t, db, store)

	seedStaff(t, db, model.RoleBursaryStaff, "Bursary", nil)
	student := seedStudent(t, db, "Physics", nil)

	view, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Payment missing",
		Description: "Paid tuition two weeks ago, portal still shows unpaid",
		CategoryID:  model.CategoryBursary,
		PriorityID:  3,
	}, &dto.UploadedFile{Reader: strings.NewReader("receipt"), FileName: "receipt.pdf"})
	require.NoError(t, err)

	require.NotNil(t, view.FileURL)
	assert.Contains(t, *view.FileURL, "receipt.pdf")
	assert.Len(t, store.uploads, 1)
}

func TestCreateFailedUploadLeavesNoComplaintBehind(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{fail: true})

	seedStaff(t, db, model.RoleBursaryStaff, "Bursary", nil)
	student := seedStudent(t, db, "Physics", nil)

	_, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Payment missing",
		Description: "Receipt attached",
		CategoryID:  model.CategoryBursary,
		PriorityID:  1,
	}, &dto.UploadedFile{Reader: strings.NewReader("receipt"), FileName: "receipt.pdf"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperror.MapErrorToStatus(err))

	var count int64
	require.NoError(t, db.Model(&model.Complaint{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	student := seedStudent(t, db, "Physics", nil)

	_, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Anything",
		Description: "Anything",
		CategoryID:  99,
		PriorityID:  1,
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestRespondUpdatesBothStatuses(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	complaint := seedComplaint(t, db, student, model.CategoryHall, model.ComplaintStatusAssigned)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     porter.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	view, err := svc.Respond(context.Background(), porter, complaint.ID, dto.StaffResponseRequest{
		Response: "We are on it",
		Status:   model.ComplaintStatusInProgress,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintStatusInProgress, view.Status)
	require.NotNil(t, view.Assignment)
	require.NotNil(t, view.Assignment.Response)
	assert.Equal(t, "We are on it", *view.Assignment.Response)
}

func TestRespondWithResolvedStatusCloses(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	complaint := seedComplaint(t, db, student, model.CategoryHall, model.ComplaintStatusAssigned)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     porter.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	view, err := svc.Respond(context.Background(), porter, complaint.ID, dto.StaffResponseRequest{
		Response: "Fixed the window",
		Status:   model.ComplaintStatusResolved,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintStatusResolved, view.Status)
	require.NotNil(t, view.ClosedBy)
	assert.Equal(t, porter.ID, *view.ClosedBy)
	require.NotNil(t, view.Assignment)
	assert.Equal(t, model.AssignmentStatusResolved, view.Assignment.Status)
	assert.NotNil(t, view.Assignment.ResolvedAt)
}

func TestCloseWithoutAssignmentIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	complaint := seedComplaint(t, db, student, model.CategoryHall, model.ComplaintStatusPending)

	_, err := svc.Close(context.Background(), complaint.ID, porter)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestEscalateRebindsAssignmentToAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	secretary := seedStaff(t, db, model.RoleSecretary, "Physics", nil)
	admin := seedStaff(t, db, model.RoleHallAdmin, "Physics", nil)
	student := seedStudent(t, db, "Physics", nil)
	complaint := seedComplaint(t, db, student, model.CategoryCourse, model.ComplaintStatusAssigned)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     secretary.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	view, err := svc.Escalate(context.Background(), secretary, complaint.ID)
	require.NoError(t, err)

	require.NotNil(t, view.Assignment)
	require.NotNil(t, view.Assignment.Staff)
	assert.Equal(t, admin.ID, view.Assignment.Staff.ID)
	assert.Equal(t, model.AssignmentStatusEscalated, view.Assignment.Status)

	// Still exactly one assignment row for the complaint.
	var count int64
	require.NoError(t, db.Model(&model.ComplaintAssignment{}).
		Where("complaint_id = ?", complaint.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEscalateWithoutAdminIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	secretary := seedStaff(t, db, model.RoleSecretary, "Physics", nil)
	student := seedStudent(t, db, "Physics", nil)
	complaint := seedComplaint(t, db, student, model.CategoryCourse, model.ComplaintStatusAssigned)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     secretary.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	_, err := svc.Escalate(context.Background(), secretary, complaint.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestReassignOverwritesStaffOnlyAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	original := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	replacement := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	complaint := seedComplaint(t, db, student, model.CategoryHall, model.ComplaintStatusAssigned)
	note := "spoke to the student"
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID:   complaint.ID,
		StaffID:       original.ID,
		Status:        model.AssignmentStatusAssigned,
		InternalNotes: &note,
	}).Error)

	view, err := svc.Reassign(context.Background(), complaint.ID, replacement.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Assignment)
	require.NotNil(t, view.Assignment.Staff)
	assert.Equal(t, replacement.ID, view.Assignment.Staff.ID)
	// Status and notes survive the handover.
	assert.Equal(t, model.AssignmentStatusAssigned, view.Assignment.Status)

	again, err := svc.Reassign(context.Background(), complaint.ID, replacement.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement.ID, again.Assignment.Staff.ID)

	assert.EqualValues(t, 0, assignmentCount(t, db, original.ID))
	assert.EqualValues(t, 1, assignmentCount(t, db, replacement.ID))
}

func TestReassignUnknownComplaintIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	staff := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))

	_, err := svc.Reassign(context.Background(), "00000000-0000-0000-0000-000000000000", staff.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestRateRequiresResolvedAndIsOncePerComplaint(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	student := seedStudent(t, db, "Physics", nil)
	open := seedComplaint(t, db, student, model.CategoryBursary, model.ComplaintStatusAssigned)

	err := svc.Rate(context.Background(), student, open.ID, dto.RatingRequest{Rating: 4})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	resolved := seedComplaint(t, db, student, model.CategoryBursary, model.ComplaintStatusResolved)
	require.NoError(t, svc.Rate(context.Background(), student, resolved.ID, dto.RatingRequest{Rating: 5}))

	err = svc.Rate(context.Background(), student, resolved.ID, dto.RatingRequest{Rating: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestSubmitCourseUploadSpawnsCourseComplaint(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	secretary := seedStaff(t, db, model.RoleSecretary, "Physics", nil)
	student := seedStudent(t, db, "Physics", nil)

	result, err := svc.SubmitCourseUpload(context.Background(), student, dto.CourseUploadRequest{
		CourseTitle: "Quantum Mechanics I",
		CourseCode:  "PHY301",
		Level:       300,
		Reason:      "Course missing from my portal",
		TotalUnits:  18,
	})
	require.NoError(t, err)

	require.NotNil(t, result.CourseUpload)
	require.NotNil(t, result.Complaint)
	assert.Equal(t, model.CategoryCourse, result.Complaint.Category.ID)
	require.NotNil(t, result.Complaint.Assignment)
	require.NotNil(t, result.Complaint.Assignment.Staff)
	assert.Equal(t, secretary.ID, result.Complaint.Assignment.Staff.ID)

	// Resubmitting the same course code reuses the course row.
	_, err = svc.SubmitCourseUpload(context.Background(), student, dto.CourseUploadRequest{
		CourseTitle: "Quantum Mechanics I",
		CourseCode:  "PHY301",
		Level:       300,
		Reason:      "Still missing",
		TotalUnits:  18,
	})
	require.NoError(t, err)

	var courses int64
	require.NoError(t, db.Model(&model.Course{}).Count(&courses).Error)
	assert.EqualValues(t, 1, courses)
}

func TestFollowUpVisibleToStaffOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	porter := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	student := seedStudent(t, db, "Physics", strptr("Unity Hall"))
	complaint := seedComplaint(t, db, student, model.CategoryHall, model.ComplaintStatusAssigned)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     porter.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	require.NoError(t, svc.AddFollowUp(context.Background(), student, complaint.ID, "it got worse over the weekend"))

	studentView, err := svc.GetForStudent(context.Background(), student, complaint.ID)
	require.NoError(t, err)
	require.NotNil(t, studentView.Assignment)
	assert.Nil(t, studentView.Assignment.InternalNotes)

	staffViews, err := svc.ListAssignedTo(context.Background(), porter, "")
	require.NoError(t, err)
	require.Len(t, staffViews, 1)
	require.NotNil(t, staffViews[0].Assignment.InternalNotes)
	assert.Equal(t, "it got worse over the weekend", *staffViews[0].Assignment.InternalNotes)
}

func TestStudentCannotReadAnotherStudentsComplaint(t *testing.T) {
	db := newTestDB(t)
	svc := newComplaintService(t, db, &fakeStorage{})

	owner := seedStudent(t, db, "Physics", nil)
	other := seedStudent(t, db, "Physics", nil)
	complaint := seedComplaint(t, db, owner, model.CategoryBursary, model.ComplaintStatusPending)

	_, err := svc.GetForStudent(context.Background(), other, complaint.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}
