package handler

import (
	"net/http"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"campusvoice.com/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	resp, err := h.service.LoginStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	resp, err := h.service.LoginStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}
