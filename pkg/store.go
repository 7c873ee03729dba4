package pkg

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/interview-prep-service/internal/config"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories/mongo"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories/postgres"
)

// OpenRepository connects the content store selected by STORE_DRIVER.
func OpenRepository(ctx context.Context, cfg *config.Config) (repositories.Repository, error) {
	if cfg.StoreDriver == "mongo" {
		client, err := NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongo.NewRepository(client, cfg.MongoDatabase, mongo.Options{Transactions: cfg.MongoTxn}), nil
	}

	db, err := InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	repo := postgres.NewRepository(db)
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return repo, nil
}
