// Package db opens gorm connections for the configured driver and manages
// the schema.
package db

import (
	"fmt"
	"net"
	"strconv"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/zulandar/yardplan/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN for cfg. An empty database name connects without
// selecting a database, used for CREATE DATABASE operations.
func DSN(cfg config.DatabaseConfig, database string) string {
	mc := mysqldriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = database
	mc.ParseTime = true
	return mc.FormatDSN()
}

// Connect opens a GORM connection to the configured database.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(DSN(cfg, cfg.Name))
	case config.DriverSQLite, "":
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect to %s: %w", describe(cfg), err)
	}
	return db, nil
}

// SQLiteDSN appends the pragmas yardplan relies on to a SQLite path.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// ConnectAdmin opens a GORM connection to the MySQL server without selecting
// a specific database, used for CREATE DATABASE operations.
func ConnectAdmin(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Driver != config.DriverMySQL {
		return nil, fmt.Errorf("db: admin connection requires the %s driver", config.DriverMySQL)
	}
	db, err := gorm.Open(mysql.Open(DSN(cfg, "")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// DropDatabase drops the named database if it exists.
func DropDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: drop database %s: %w", name, err)
	}
	return nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

func describe(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverMySQL {
		return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
	}
	return cfg.Path
}
