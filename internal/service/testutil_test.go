package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"campusvoice.com/backend/internal/bootstrap"
	"campusvoice.com/backend/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedReferenceData(db))

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, department string, hall *string) *model.Student {
	t.Helper()

	student := &model.Student{
		MatricNo:     fmt.Sprintf("MAT-%d", nextSeq()),
		Email:        fmt.Sprintf("student%d@test.edu", nextSeq()),
		Fullname:     "Test Student",
		Department:   department,
		School:       "Science",
		HallName:     hall,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func seedStaff(t *testing.T, db *gorm.DB, roleID uint, department string, hall *string) *model.Staff {
	t.Helper()

	staff := &model.Staff{
		Email:        fmt.Sprintf("staff%d@test.edu", nextSeq()),
		Fullname:     "Test Staff",
		Department:   department,
		HallName:     hall,
		PasswordHash: "x",
		RoleID:       roleID,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func seedComplaint(t *testing.T, db *gorm.DB, student *model.Student, categoryID uint, status string) *model.Complaint {
	t.Helper()

	complaint := &model.Complaint{
		StudentID:   student.ID,
		CategoryID:  categoryID,
		PriorityID:  1,
		Title:       "Test complaint",
		Description: "Something is wrong",
		Status:      status,
	}
	require.NoError(t, db.Create(complaint).Error)
	return complaint
}

func assignmentCount(t *testing.T, db *gorm.DB, staffID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.ComplaintAssignment{}).
		Where("staff_id = ?", staffID).
		Count(&count).Error)
	return count
}

var seq int

func nextSeq() int {
	seq++
	return seq
}

func strptr(s string) *string {
	return &s
}

// fakeStorage satisfies the file storage contract without network calls.
type fakeStorage struct {
	uploads []string
	fail    bool
}

func (f *fakeStorage) Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	url := "https://cdn.test/" + folder + "/" + fileName
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	return nil
}

// fixedClassifier always returns the configured decision or error.
type fixedClassifier struct {
	decision CategoryDecision
	err      error
}

func (f *fixedClassifier) Classify(ctx context.Context, title, description string) (CategoryDecision, error) {
	return f.decision, f.err
}
