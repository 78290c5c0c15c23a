package db

import (
	"fmt"

	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.Customer{},
		&models.Project{},
		&models.Product{},
		&models.Task{},
		&models.ValueChain{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
