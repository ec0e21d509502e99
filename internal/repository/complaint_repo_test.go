package repository

import (
	"context"
	"fmt"
	"testing"

	"campusvoice.com/backend/internal/bootstrap"
	"campusvoice.com/backend/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedReferenceData(db))
	return db
}

func createStudent(t *testing.T, db *gorm.DB, n int, department string, hall *string) *model.Student {
	t.Helper()
	student := &model.Student{
		MatricNo:     fmt.Sprintf("MAT-%d", n),
		Email:        fmt.Sprintf("s%d@test.edu", n),
		Fullname:     "S",
		Department:   department,
		School:       "Science",
		HallName:     hall,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func createComplaint(t *testing.T, db *gorm.DB, student *model.Student, title string) *model.Complaint {
	t.Helper()
	complaint := &model.Complaint{
		StudentID:   student.ID,
		CategoryID:  model.CategoryHall,
		PriorityID:  1,
		Title:       title,
		Description: "d",
		Status:      model.ComplaintStatusPending,
	}
	require.NoError(t, db.Create(complaint).Error)
	return complaint
}

func TestFindByStaffScopeHallStaffSeeTheirHall(t *testing.T) {
	db := newTestDB(t)
	repo := NewComplaintRepository(db)

	unity := "Unity Hall"
	freedom := "Freedom Hall"

	inHall := createStudent(t, db, 1, "Physics", &unity)
	otherHall := createStudent(t, db, 2, "Physics", &freedom)

	mine := createComplaint(t, db, inHall, "Leaking roof")
	createComplaint(t, db, otherHall, "Broken door")

	porter := &model.Staff{
		Email: "porter@test.edu", Fullname: "P",
		Department: model.DepartmentHall, HallName: &unity,
		PasswordHash: "x", RoleID: model.RoleHallPorter,
	}
	require.NoError(t, db.Create(porter).Error)

	complaints, err := repo.FindByStaffScope(context.Background(), porter, "")
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, mine.ID, complaints[0].ID)
}

func TestFindByStaffScopeDepartmentStaffSeeTheirDepartment(t *testing.T) {
	db := newTestDB(t)
	repo := NewComplaintRepository(db)

	physics := createStudent(t, db, 1, "Physics", nil)
	chemistry := createStudent(t, db, 2, "Chemistry", nil)

	mine := createComplaint(t, db, physics, "Missing course")
	createComplaint(t, db, chemistry, "Missing course too")

	secretary := &model.Staff{
		Email: "sec@test.edu", Fullname: "S",
		Department: "Physics", PasswordHash: "x", RoleID: model.RoleSecretary,
	}
	require.NoError(t, db.Create(secretary).Error)

	complaints, err := repo.FindByStaffScope(context.Background(), secretary, "")
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, mine.ID, complaints[0].ID)
}

func TestFindByStudentSearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewComplaintRepository(db)

	student := createStudent(t, db, 1, "Physics", nil)
	createComplaint(t, db, student, "Noisy Roommate")
	createComplaint(t, db, student, "Broken window")

	complaints, err := repo.FindByStudent(context.Background(), student.ID, "noisy")
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, "Noisy Roommate", complaints[0].Title)
}

func TestFindByIDHydratesAssignmentChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewComplaintRepository(db)

	student := createStudent(t, db, 1, "Physics", nil)
	complaint := createComplaint(t, db, student, "Leaking roof")

	porter := &model.Staff{
		Email: "porter@test.edu", Fullname: "P",
		Department: model.DepartmentHall, PasswordHash: "x", RoleID: model.RoleHallPorter,
	}
	require.NoError(t, db.Create(porter).Error)
	require.NoError(t, db.Create(&model.ComplaintAssignment{
		ComplaintID: complaint.ID,
		StaffID:     porter.ID,
		Status:      model.AssignmentStatusAssigned,
	}).Error)

	found, err := repo.FindByID(context.Background(), complaint.ID)
	require.NoError(t, err)

	assert.Equal(t, "Hall", found.Category.Name)
	require.NotNil(t, found.Assignment)
	require.NotNil(t, found.Assignment.Staff)
	assert.Equal(t, porter.ID, found.Assignment.Staff.ID)
	assert.Equal(t, "hall-porter", found.Assignment.Staff.Role.Name)
}
