package service

import (
	"context"
	"fmt"
	"time"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Token subjects carry the principal kind so one secret can serve both user
// populations: "student:<id>" and "staff:<id>".
const (
	PrincipalStudent = "student"
	PrincipalStaff   = "staff"
)

type AuthService interface {
	LoginStudent(ctx context.Context, input dto.LoginRequest) (*dto.StudentLoginResponse, error)
	LoginStaff(ctx context.Context, input dto.LoginRequest) (*dto.StaffLoginResponse, error)
}

type authService struct {
	studentRepo repository.StudentRepository
	staffRepo   repository.StaffRepository
	secret      string
	tokenTTL    time.Duration
}

func NewAuthService(studentRepo repository.StudentRepository, staffRepo repository.StaffRepository, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL == 0 {
		tokenTTL = time.Hour
	}
	return &authService{
		studentRepo: studentRepo,
		staffRepo:   staffRepo,
		secret:      secret,
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) LoginStudent(ctx context.Context, input dto.LoginRequest) (*dto.StudentLoginResponse, error) {
	student, err := s.studentRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	token, expiresAt, err := s.generateToken(PrincipalStudent, student.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	student.PasswordHash = ""
	return &dto.StudentLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		Student:     student,
	}, nil
}

func (s *authService) LoginStaff(ctx context.Context, input dto.LoginRequest) (*dto.StaffLoginResponse, error) {
	staff, err := s.staffRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(0, "invalid credentials", apperror.ErrUnauthorized)
	}

	token, expiresAt, err := s.generateToken(PrincipalStaff, staff.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.StaffLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		Staff:       dto.NewStaffProfile(staff),
	}, nil
}

func (s *authService) generateToken(kind string, id uint) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%s:%d", kind, id),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// HashPassword is shared by student registration and staff provisioning.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
