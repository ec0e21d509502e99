package handler

import (
	"net/http"
	"strconv"

	"campusvoice.com/backend/internal/dto"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// SearchHandler exposes full-text complaint search to staff. The search engine
// only returns ids; rows are rehydrated from the database so staff always see
// current state.
type SearchHandler struct {
	search        service.SearchIndexer
	complaintRepo repository.ComplaintRepository
}

func NewSearchHandler(search service.SearchIndexer, complaintRepo repository.ComplaintRepository) *SearchHandler {
	return &SearchHandler{search: search, complaintRepo: complaintRepo}
}

func (h *SearchHandler) SearchComplaints(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, apperror.New(0, "query parameter q is required", apperror.ErrInvalidInput))
		return
	}

	var categoryID uint
	if v, err := strconv.ParseUint(c.Query("category_id"), 10, 64); err == nil {
		categoryID = uint(v)
	}

	if h.search == nil {
		response.Error(c, apperror.New(0, "search is not configured", apperror.ErrUpstream))
		return
	}

	ids, err := h.search.SearchComplaints(query, categoryID, 50)
	if err != nil {
		response.Error(c, apperror.Upstream("search request failed", err))
		return
	}

	views := make([]*dto.ComplaintView, 0, len(ids))
	for _, id := range ids {
		complaint, err := h.complaintRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			// Index may lag behind deletes; skip stale hits.
			continue
		}
		views = append(views, dto.NewComplaintView(complaint, true))
	}

	response.JSON(c, http.StatusOK, views)
}
