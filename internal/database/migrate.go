package database

import (
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// Migrate creates or updates the schema for every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
