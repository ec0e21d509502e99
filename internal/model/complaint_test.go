package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Role{}, &Staff{}, &Student{}, &ComplaintCategory{}, &Priority{}, &Complaint{}, &ComplaintAssignment{}))
	return db
}

func TestComplaintGetsUUIDOnCreate(t *testing.T) {
	db := openDB(t)

	student := Student{MatricNo: "MAT-1", Email: "s@test.edu", Fullname: "S", Department: "Physics", School: "Science"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&ComplaintCategory{ID: CategoryHall, Name: "Hall"}).Error)
	require.NoError(t, db.Create(&Priority{ID: 1, Level: "low"}).Error)

	complaint := Complaint{
		StudentID:   student.ID,
		CategoryID:  CategoryHall,
		PriorityID:  1,
		Title:       "t",
		Description: "d",
		Status:      ComplaintStatusPending,
	}
	require.NoError(t, db.Create(&complaint).Error)

	_, err := uuid.Parse(complaint.ID)
	assert.NoError(t, err)
}

func TestComplaintKeepsPresetID(t *testing.T) {
	db := openDB(t)

	student := Student{MatricNo: "MAT-2", Email: "s2@test.edu", Fullname: "S", Department: "Physics", School: "Science"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&ComplaintCategory{ID: CategoryHall, Name: "Hall"}).Error)
	require.NoError(t, db.Create(&Priority{ID: 1, Level: "low"}).Error)

	preset := uuid.NewString()
	complaint := Complaint{
		ID:          preset,
		StudentID:   student.ID,
		CategoryID:  CategoryHall,
		PriorityID:  1,
		Title:       "t",
		Description: "d",
		Status:      ComplaintStatusPending,
	}
	require.NoError(t, db.Create(&complaint).Error)
	assert.Equal(t, preset, complaint.ID)
}

func TestAssignmentUniquePerComplaint(t *testing.T) {
	db := openDB(t)

	student := Student{MatricNo: "MAT-3", Email: "s3@test.edu", Fullname: "S", Department: "Physics", School: "Science"}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&ComplaintCategory{ID: CategoryHall, Name: "Hall"}).Error)
	require.NoError(t, db.Create(&Priority{ID: 1, Level: "low"}).Error)
	require.NoError(t, db.Create(&Role{ID: RoleHallPorter, Name: "hall-porter"}).Error)

	staff := Staff{Email: "p@test.edu", Fullname: "P", Department: DepartmentHall, PasswordHash: "x", RoleID: RoleHallPorter}
	require.NoError(t, db.Create(&staff).Error)

	complaint := Complaint{StudentID: student.ID, CategoryID: CategoryHall, PriorityID: 1, Title: "t", Description: "d", Status: ComplaintStatusAssigned}
	require.NoError(t, db.Create(&complaint).Error)

	require.NoError(t, db.Create(&ComplaintAssignment{ComplaintID: complaint.ID, StaffID: staff.ID, Status: AssignmentStatusAssigned}).Error)
	err := db.Create(&ComplaintAssignment{ComplaintID: complaint.ID, StaffID: staff.ID, Status: AssignmentStatusAssigned}).Error
	assert.Error(t, err)
}
