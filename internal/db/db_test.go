package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulandar/yardplan/internal/config"
	"github.com/zulandar/yardplan/internal/models"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		database string
		prefix   string
		contains string
	}{
		{
			name:     "default local",
			cfg:      config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root"},
			database: "yardplan",
			prefix:   "root@tcp(",
			contains: "127.0.0.1:3306)/yardplan?",
		},
		{
			name:     "credentials",
			cfg:      config.DatabaseConfig{Host: "10.0.0.5", Port: 3307, User: "planner", Password: "secret"},
			database: "yardplan_acme",
			prefix:   "planner:secret@tcp(",
			contains: "10.0.0.5:3307)/yardplan_acme?",
		},
		{
			name:     "admin connection selects no database",
			cfg:      config.DatabaseConfig{Host: "db.internal", Port: 3306, User: "root"},
			database: "",
			prefix:   "root@tcp(",
			contains: "db.internal:3306)/?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.cfg, tt.database)
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("DSN() = %q, want prefix %q", got, tt.prefix)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("DSN() = %q, want to contain %q", got, tt.contains)
			}
			if !strings.Contains(got, "parseTime=true") {
				t.Errorf("DSN missing parseTime=true: %s", got)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	got := SQLiteDSN("/tmp/plan.db")
	if !strings.HasPrefix(got, "/tmp/plan.db?") {
		t.Errorf("SQLiteDSN() = %q, want path prefix", got)
	}
	if !strings.Contains(got, "_foreign_keys=on") {
		t.Errorf("SQLiteDSN() = %q, want foreign keys enabled", got)
	}
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "unsupported driver") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "unsupported driver")
	}
}

func TestConnectAdmin_RequiresMySQL(t *testing.T) {
	_, err := ConnectAdmin(config.DatabaseConfig{Driver: config.DriverSQLite})
	if err == nil {
		t.Fatal("expected error for sqlite admin connection")
	}
}

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yardplan.db")
	gormDB, err := Connect(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, m := range AllModels() {
		if !gormDB.Migrator().HasTable(m) {
			t.Errorf("table for %T not created", m)
		}
	}
	if !gormDB.Migrator().HasColumn(&models.Product{}, "version") {
		t.Error("products.version column missing")
	}

	// Migration is idempotent.
	if err := AutoMigrate(gormDB); err != nil {
		t.Fatalf("second AutoMigrate: %v", err)
	}
}

func TestAllModels_Count(t *testing.T) {
	if got := len(AllModels()); got != 6 {
		t.Errorf("len(AllModels()) = %d, want 6", got)
	}
}
