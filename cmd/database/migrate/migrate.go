package migration

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/minischetti/meal-planner-api/pkg/store/postgres"
)

// Migrate creates the documents table used by the postgres store driver.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&postgres.Document{}); err != nil {
		return fmt.Errorf("migration: migrating documents table: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
