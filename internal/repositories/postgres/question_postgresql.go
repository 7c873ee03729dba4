package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	var questions []*models.Question
	var total int64

	query := q.db.WithContext(ctx).Model(&models.Question{})
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(repositories.NormalizeLimit(filters.Limit)).
		Offset(filters.Offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (q *QuestionPostgreSQL) Sample(ctx context.Context, filters repositories.SampleFilters) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("category = ? AND difficulty = ?", filters.Category, filters.Difficulty).
		Order("RANDOM()").
		Limit(filters.Count).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
