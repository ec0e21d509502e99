package handler

import (
	"net/http"
	"strconv"

	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// MetaHandler serves the static directory data used to build complaint forms.
type MetaHandler struct {
	referenceRepo repository.ReferenceRepository
}

func NewMetaHandler(referenceRepo repository.ReferenceRepository) *MetaHandler {
	return &MetaHandler{referenceRepo: referenceRepo}
}

func (h *MetaHandler) ListCategories(c *gin.Context) {
	categories, err := h.referenceRepo.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

func (h *MetaHandler) ListTypes(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.New(0, "category id must be numeric", apperror.ErrInvalidInput))
		return
	}

	types, err := h.referenceRepo.ListTypesByCategory(c.Request.Context(), uint(categoryID))
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, types)
}

func (h *MetaHandler) ListPriorities(c *gin.Context) {
	priorities, err := h.referenceRepo.ListPriorities(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.JSON(c, http.StatusOK, priorities)
}
