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
	"github.com/google/uuid"
)

type ComplaintHandler struct {
	service service.ComplaintService
}

func NewComplaintHandler(service service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Student endpoints

func (h *ComplaintHandler) Create(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	var req dto.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	var upload *dto.UploadedFile
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		f, err := fileHeader.Open()
		if err != nil {
			response.Error(c, apperror.New(0, "failed to read uploaded file", apperror.ErrInvalidInput))
			return
		}
		defer f.Close()
		upload = &dto.UploadedFile{Reader: f, FileName: fileHeader.Filename}
	}

	view, err := h.service.Create(c.Request.Context(), student, req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, view)
}

func (h *ComplaintHandler) ListMine(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	var filter dto.ComplaintFilter
	_ = c.ShouldBindQuery(&filter)

	views, err := h.service.ListForStudent(c.Request.Context(), student, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, views)
}

func (h *ComplaintHandler) GetMine(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	view, err := h.service.GetForStudent(c.Request.Context(), student, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

func (h *ComplaintHandler) AddFollowUp(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req dto.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	if err := h.service.AddFollowUp(c.Request.Context(), student, id, req.Note); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "follow-up recorded"})
}

func (h *ComplaintHandler) Rate(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	if err := h.service.Rate(c.Request.Context(), student, id, req); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{"message": "rating submitted"})
}

func (h *ComplaintHandler) SubmitCourseUpload(c *gin.Context) {
	student := middleware.StudentFrom(c)
	if student == nil {
		response.Error(c, apperror.New(0, "student not authenticated", apperror.ErrUnauthorized))
		return
	}

	var req dto.CourseUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	result, err := h.service.SubmitCourseUpload(c.Request.Context(), student, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, result)
}

// Staff endpoints

func (h *ComplaintHandler) ListScoped(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	var filter dto.ComplaintFilter
	_ = c.ShouldBindQuery(&filter)

	views, err := h.service.ListForStaffScope(c.Request.Context(), staff, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, views)
}

func (h *ComplaintHandler) ListAssigned(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	var filter dto.ComplaintFilter
	_ = c.ShouldBindQuery(&filter)

	views, err := h.service.ListAssignedTo(c.Request.Context(), staff, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, views)
}

func (h *ComplaintHandler) ListResolved(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	views, err := h.service.ListResolvedBy(c.Request.Context(), staff)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, views)
}

func (h *ComplaintHandler) Respond(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req dto.StaffResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	view, err := h.service.Respond(c.Request.Context(), staff, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

func (h *ComplaintHandler) Close(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	view, err := h.service.Close(c.Request.Context(), id, staff)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

func (h *ComplaintHandler) Escalate(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil {
		response.Error(c, apperror.New(0, "staff not authenticated", apperror.ErrUnauthorized))
		return
	}

	id, ok := complaintID(c)
	if !ok {
		return
	}

	view, err := h.service.Escalate(c.Request.Context(), staff, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

type reassignRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

func (h *ComplaintHandler) Reassign(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}

	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(0, validator.FormatValidationError(err), apperror.ErrInvalidInput))
		return
	}

	view, err := h.service.Reassign(c.Request.Context(), id, req.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

// complaintID validates the :id path parameter is a uuid before it reaches
// the database.
func complaintID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, apperror.New(0, "complaint id must be a valid uuid", apperror.ErrInvalidInput))
		return "", false
	}
	return id, true
}
