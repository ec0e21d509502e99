package service

import (
	"context"
	"log"
)

// CategoryDecision is the categorizer's verdict for a submission.
type CategoryDecision struct {
	CategoryID uint    `json:"category_id"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier is the optional external text-classification collaborator.
type Classifier interface {
	Classify(ctx context.Context, title, description string) (CategoryDecision, error)
}

// Categorizer maps a submission to its category. It never fails: when the
// classifier is absent or errors, the student's declared category is used with
// a low-confidence marker.
type Categorizer struct {
	classifier Classifier
}

func NewCategorizer(classifier Classifier) *Categorizer {
	return &Categorizer{classifier: classifier}
}

func (c *Categorizer) Categorize(ctx context.Context, title, description string, declaredCategoryID uint) CategoryDecision {
	if c.classifier != nil {
		decision, err := c.classifier.Classify(ctx, title, description)
		if err == nil && decision.CategoryID != 0 {
			return decision
		}
		if err != nil {
			log.Printf("classifier failed, falling back to declared category: %v", err)
		}
	}

	return CategoryDecision{
		CategoryID: declaredCategoryID,
		Confidence: 0.5,
		Reasoning:  "declared category used as fallback",
	}
}
