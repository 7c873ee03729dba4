package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"gorm.io/gorm"
)

// SessionPostgreSQL keeps attempts in a JSON column, so answer writes replace
// the whole attempt list. Writes are guarded on status = in_progress.
type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *SessionPostgreSQL) GetByToken(ctx context.Context, token, ownerID string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND owner_id = ?", token, ownerID).
		First(&session).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, ownerID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	var sessions []*models.Session
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Session{}).Where("owner_id = ?", ownerID)
	if filters.Variant != nil {
		query = query.Where("variant = ?", *filters.Variant)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("started_at DESC").
		Limit(repositories.NormalizeLimit(filters.Limit)).
		Offset(filters.Offset).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (s *SessionPostgreSQL) SaveAnswer(ctx context.Context, session *models.Session, index int) error {
	result := s.db.WithContext(ctx).
		Model(session).
		Where("status = ?", models.SessionInProgress).
		Select("attempts", "score", "answered_count", "updated_at").
		Updates(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleSession
	}
	return nil
}

func (s *SessionPostgreSQL) Complete(ctx context.Context, session *models.Session) error {
	result := s.db.WithContext(ctx).
		Model(session).
		Where("status = ?", models.SessionInProgress).
		Select("status", "score", "feedback", "completed_at", "completed_day", "updated_at").
		Updates(session)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrStaleSession
	}
	return nil
}

func (s *SessionPostgreSQL) ListExpired(ctx context.Context, variant models.SessionVariant, now time.Time, limit int) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("variant = ? AND status = ? AND expires_at < ?", variant, models.SessionInProgress, now).
		Order("expires_at ASC").
		Limit(repositories.NormalizeLimit(limit)).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) Rollup(ctx context.Context, ownerID string, since time.Time) ([]models.RollupRow, error) {
	var rows []models.RollupRow
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select("variant, category, completed_day AS day, COUNT(*) AS sessions, SUM(score) AS total_score").
		Where("owner_id = ? AND status = ? AND completed_day >= ?",
			ownerID, models.SessionCompleted, since.UTC().Format(models.DayLayout)).
		Group("variant, category, completed_day").
		Order("completed_day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
