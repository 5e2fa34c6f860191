package database

import (
	"context"
	"fmt"

	"heritage-gallery/internal/domain/content"
	"heritage-gallery/internal/domain/media"
	"heritage-gallery/internal/domain/users"
	"heritage-gallery/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to dsn, enables uuid generation and migrates the models.
func InitDB(ctx context.Context, dsn string, log logging.Logger) error {
	if dsn == "" {
		return fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	// gen_random_uuid()
	if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&users.User{},
		&media.Image{},
		&content.Item{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	DB = db
	log.Info(ctx, "connected and migrated")
	return nil
}
