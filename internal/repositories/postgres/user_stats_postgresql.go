package postgres

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStatsPostgreSQL struct {
	db *gorm.DB
}

func NewUserStatsPostgreSQL(db *gorm.DB) repositories.UserStatsRepository {
	return &UserStatsPostgreSQL{db: db}
}

func (u *UserStatsPostgreSQL) Get(ctx context.Context, ownerID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := u.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&stats).Error; err != nil {
		return nil, translateError(err)
	}
	return &stats, nil
}

func (u *UserStatsPostgreSQL) Upsert(ctx context.Context, stats *models.UserStats) error {
	return u.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			UpdateAll: true,
		}).
		Create(stats).Error
}
