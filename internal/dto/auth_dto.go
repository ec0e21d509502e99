package dto

import (
	"io"

	"campusvoice.com/backend/internal/model"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type StudentLoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	Student     *model.Student `json:"student"`
}

type StaffLoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	Staff       *StaffProfile `json:"staff"`
}

// UploadedFile carries a multipart file into the service layer without
// exposing http types there.
type UploadedFile struct {
	Reader   io.Reader
	FileName string
}

type RegisterStudentRequest struct {
	MatricNo   string  `json:"matric_no" binding:"required,max=50"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Fullname   string  `json:"fullname" binding:"required,max=100"`
	Department string  `json:"department" binding:"required,max=100"`
	School     string  `json:"school" binding:"required,max=100"`
	HallName   *string `json:"hall_name"`
}

type CreateStaffRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Fullname   string  `json:"fullname" binding:"required,max=100"`
	Department string  `json:"department" binding:"required,max=100"`
	HallName   *string `json:"hall_name"`
	RoleID     uint    `json:"role_id" binding:"required"`
	ReportsTo  *uint   `json:"reports_to"`
}
