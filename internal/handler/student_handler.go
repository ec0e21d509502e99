package handler

import (
	"net/http"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/middleware"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"campusvoice.com/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	service service.StudentService
}

func NewStudentHandler(service service.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	student, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, student)
}

func (h *StudentHandler) Profile(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

func (h *StudentHandler) UpdateProfilePicture(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.New(0, "profile picture file is required", apperror.ErrInvalidInput))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperror.New(0, "failed to read uploaded file", apperror.ErrInvalidInput))
		return
	}
	defer f.Close()

	profile, err := h.service.UpdateProfilePicture(c.Request.Context(), student, &dto.UploadedFile{
		Reader:   f,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}
