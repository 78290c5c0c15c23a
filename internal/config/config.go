// Package config provides YAML-based configuration loading for yardplan.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// CronParser parses the standard 5-field cron expressions (minute, hour, dom, month, dow)
// accepted for repair.schedule.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Config is the top-level yardplan configuration, loaded from yardplan.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Repair   RepairConfig   `yaml:"repair"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects and addresses the relational store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"` // sqlite only
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// RepairConfig schedules the full-tree date repair. An empty schedule
// disables it.
type RepairConfig struct {
	Schedule string `yaml:"schedule"`
}

// LogConfig controls the slog handler built by the CLI.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "yardplan.db"
	}
	if c.Database.Driver == DriverMySQL {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
		if c.Database.Name == "" {
			c.Database.Name = "yardplan"
		}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be %q or %q", c.Database.Driver, DriverSQLite, DriverMySQL))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Repair.Schedule != "" {
		if _, err := CronParser.Parse(c.Repair.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("repair.schedule %q: %v", c.Repair.Schedule, err))
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
