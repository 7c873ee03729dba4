package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

// SessionRepository stores interview and test sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token, ownerID string) (*models.Session, error)
	List(ctx context.Context, ownerID string, filters SessionFilters) ([]*models.Session, int64, error)

	// SaveAnswer persists the attempt at index together with the recomputed
	// score and answered count. It returns ErrStaleSession when the session
	// is no longer in progress.
	SaveAnswer(ctx context.Context, session *models.Session, index int) error

	// Complete persists the terminal status, completion stamps and feedback.
	// It returns ErrStaleSession when the session already left in_progress.
	Complete(ctx context.Context, session *models.Session) error

	// ListExpired returns in-progress sessions of a variant whose expiry is
	// before now.
	ListExpired(ctx context.Context, variant models.SessionVariant, now time.Time, limit int) ([]*models.Session, error)

	// Rollup groups the owner's completed sessions since the given time by
	// variant, category and completion day.
	Rollup(ctx context.Context, ownerID string, since time.Time) ([]models.RollupRow, error)
}
