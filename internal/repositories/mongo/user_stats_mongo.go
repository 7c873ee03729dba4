package mongo

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStatsMongo struct {
	col  *mongo.Collection
	bind binder
}

func (u *UserStatsMongo) Get(ctx context.Context, ownerID string) (*models.UserStats, error) {
	var stats models.UserStats
	if err := u.col.FindOne(u.bind.ctx(ctx), bson.M{"_id": ownerID}).Decode(&stats); err != nil {
		return nil, translateError(err)
	}
	return &stats, nil
}

func (u *UserStatsMongo) Upsert(ctx context.Context, stats *models.UserStats) error {
	_, err := u.col.ReplaceOne(u.bind.ctx(ctx), bson.M{"_id": stats.OwnerID}, stats, options.Replace().SetUpsert(true))
	return err
}
