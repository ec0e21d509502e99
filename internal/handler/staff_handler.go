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

type StaffHandler struct {
	service service.StaffService
}

func NewStaffHandler(service service.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// Create provisions a staff account. Restricted by role middleware to admins.
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	profile, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, profile)
}

func (h *StaffHandler) Profile(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), staff.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

func (h *StaffHandler) ListPeers(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	peers, err := h.service.ListPeers(c.Request.Context(), staff)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, peers)
}

func (h *StaffHandler) UpdateProfilePicture(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
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

	profile, err := h.service.UpdateProfilePicture(c.Request.Context(), staff, &dto.UploadedFile{
		Reader:   f,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}
