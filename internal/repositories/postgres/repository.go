package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed store. It works on PostgreSQL and SQLite.
type Repository struct {
	db        *gorm.DB
	questions repositories.QuestionRepository
	sessions  repositories.SessionRepository
	stats     repositories.UserStatsRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		questions: NewQuestionPostgreSQL(db),
		sessions:  NewSessionPostgreSQL(db),
		stats:     NewUserStatsPostgreSQL(db),
	}
}

func (r *Repository) Question() repositories.QuestionRepository {
	return r.questions
}

func (r *Repository) Session() repositories.SessionRepository {
	return r.sessions
}

func (r *Repository) UserStats() repositories.UserStatsRepository {
	return r.stats
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Question{}, &models.Session{}, &models.UserStats{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateError maps gorm errors onto the repository error set.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return err
}
