package db

import (
	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/pkg/logger"
)

// Models lists every table in migration order
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Video{},
		&model.FavoriteVideo{},
		&model.PasswordReset{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
