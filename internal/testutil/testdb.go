// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/yardplan/internal/db"
	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with all tables migrated.
// The pool is limited to one connection so every query sees the same
// in-memory database. The database is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gormDB
}

// SeedOrganization inserts an organization and returns its id.
func SeedOrganization(t *testing.T, gormDB *gorm.DB, name string) string {
	t.Helper()
	org := models.Organization{ID: uuid.NewString(), Name: name, Slug: name}
	if err := gormDB.Create(&org).Error; err != nil {
		t.Fatalf("seed organization %s: %v", name, err)
	}
	return org.ID
}

// Day parses a YYYY-MM-DD date in UTC.
func Day(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}
