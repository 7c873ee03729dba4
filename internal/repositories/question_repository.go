package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

// QuestionRepository stores the immutable question bank.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)

	// Sample returns up to filters.Count random questions of one category
	// and difficulty.
	Sample(ctx context.Context, filters SampleFilters) ([]*models.Question, error)
}
