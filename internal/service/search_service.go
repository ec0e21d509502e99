package service

import (
	"encoding/json"
	"fmt"
	"log"

	"campusvoice.com/backend/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

// SearchIndexer mirrors complaint state into the search engine. Indexing is
// best effort: callers log failures and move on, the database stays the
// source of truth.
type SearchIndexer interface {
	IndexComplaint(complaint *model.Complaint) error
	DeleteComplaint(id string) error
	SearchComplaints(query string, categoryID uint, limit int64) ([]string, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchIndexer {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"category_id", "status", "student_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("complaints").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update complaints filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at"}
	_, err = s.client.Index("complaints").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update complaints sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliComplaintDoc struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	CategoryID uint   `json:"category_id"`
	Category   string `json:"category"`
	StudentID  uint   `json:"student_id"`
	CreatedAt  int64  `json:"created_at"`
}

func (s *meiliSearchService) IndexComplaint(complaint *model.Complaint) error {
	doc := meiliComplaintDoc{
		ID:         complaint.ID,
		Title:      complaint.Title,
		Content:    complaint.Description,
		Status:     complaint.Status,
		CategoryID: complaint.CategoryID,
		Category:   complaint.Category.Name,
		StudentID:  complaint.StudentID,
		CreatedAt:  complaint.CreatedAt.Unix(),
	}

	task, err := s.client.Index("complaints").AddDocuments([]meiliComplaintDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed complaint %s, task id: %d", complaint.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteComplaint(id string) error {
	_, err := s.client.Index("complaints").DeleteDocument(id)
	return err
}

// SearchComplaints returns matching complaint ids; the caller rehydrates them
// from the database so access scoping stays in one place.
func (s *meiliSearchService) SearchComplaints(query string, categoryID uint, limit int64) ([]string, error) {
	req := &meilisearch.SearchRequest{
		Limit: limit,
	}
	if categoryID != 0 {
		req.Filter = fmt.Sprintf("category_id = %d", categoryID)
	}

	resp, err := s.client.Index("complaints").Search(query, req)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}
	var docs []meiliComplaintDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
