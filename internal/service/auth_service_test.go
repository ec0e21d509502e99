package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewStudentRepository(db),
		repository.NewStaffRepository(db),
		testSecret,
		time.Hour,
	)
}

func TestStudentLoginIssuesScopedToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	hashed, err := HashPassword("hunter22racer")
	require.NoError(t, err)

	student := &model.Student{
		MatricNo: "MAT-100", Email: "jane@test.edu", Fullname: "Jane",
		Department: "Physics", School: "Science", PasswordHash: hashed,
	}
	require.NoError(t, db.Create(student).Error)

	resp, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "jane@test.edu",
		Password: "hunter22racer",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Empty(t, resp.Student.PasswordHash)

	token, err := jwt.ParseWithClaims(resp.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, fmt.Sprintf("student:%d", student.ID), claims.Subject)
}

func TestStaffLoginIssuesScopedToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	hashed, err := HashPassword("porterpass99")
	require.NoError(t, err)

	staff := seedStaff(t, db, model.RoleHallPorter, model.DepartmentHall, strptr("Unity Hall"))
	require.NoError(t, db.Model(&model.Staff{}).Where("id = ?", staff.ID).Update("password_hash", hashed).Error)

	resp, err := svc.LoginStaff(context.Background(), dto.LoginRequest{
		Email:    staff.Email,
		Password: "porterpass99",
	})
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(resp.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, fmt.Sprintf("staff:%d", staff.ID), claims.Subject)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	hashed, err := HashPassword("correct-password")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Student{
		MatricNo: "MAT-101", Email: "bob@test.edu", Fullname: "Bob",
		Department: "Physics", School: "Science", PasswordHash: hashed,
	}).Error)

	_, err = svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "bob@test.edu",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(err))
}

func TestLoginUnknownEmailIsUnauthorizedNotNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "nobody@test.edu",
		Password: "whatever123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.MapErrorToStatus(err))
}
