package repositories

import (
	"gorm.io/gorm"
	"tutorhub.backend/internal/infrastructure/models"
)

// AutoMigrate creates or updates the schema of every persisted model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
