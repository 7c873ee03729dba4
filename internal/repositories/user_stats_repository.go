package repositories

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

// UserStatsRepository stores per-user running interview statistics.
type UserStatsRepository interface {
	// Get returns ErrNotFound when the user has no stats yet.
	Get(ctx context.Context, ownerID string) (*models.UserStats, error)
	Upsert(ctx context.Context, stats *models.UserStats) error
}
