package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/interview-prep-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the relational store named by STORE_DRIVER.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Error
	if cfg.IsDevelopment() {
		logLevel = logger.Warn
	}

	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("store driver %q is not relational", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
