package database

import (
	"gorm.io/gorm"

	"github.com/macrosnap/backend/internal/models"
)

// RunMigrations brings the schema up to date. The history table is
// insert-only, so GORM auto-migration is sufficient for both Postgres and
// the sqlite databases used in tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.NutritionRecord{},
	)
}
