package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
database:
  driver: mysql
  host: 10.0.0.5
  port: 3307
  user: planner
  password: secret
  name: yardplan_acme

server:
  port: 9090

repair:
  schedule: "30 2 * * *"

log:
  level: debug
  format: json
`

const minimalYAML = `
server:
  port: 8181
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverMySQL {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverMySQL)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "10.0.0.5")
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 3307)
	}
	if cfg.Database.User != "planner" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "planner")
	}
	if cfg.Database.Password != "secret" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret")
	}
	if cfg.Database.Name != "yardplan_acme" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "yardplan_acme")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Repair.Schedule != "30 2 * * *" {
		t.Errorf("Repair.Schedule = %q, want %q", cfg.Repair.Schedule, "30 2 * * *")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q (default)", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Database.Path != "yardplan.db" {
		t.Errorf("Database.Path = %q, want %q (default)", cfg.Database.Path, "yardplan.db")
	}
	if cfg.Database.Host != "" {
		t.Errorf("Database.Host = %q, want empty for sqlite", cfg.Database.Host)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8181)
	}
	if cfg.Repair.Schedule != "" {
		t.Errorf("Repair.Schedule = %q, want empty (disabled)", cfg.Repair.Schedule)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q (default)", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want %q (default)", cfg.Log.Format, "text")
	}
}

func TestParse_MySQLDefaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  driver: mysql\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want %q (default)", cfg.Database.Host, "127.0.0.1")
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want %d (default)", cfg.Database.Port, 3306)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want %q (default)", cfg.Database.User, "root")
	}
	if cfg.Database.Name != "yardplan" {
		t.Errorf("Database.Name = %q, want %q (default)", cfg.Database.Name, "yardplan")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d (default)", cfg.Server.Port, 8080)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("empty config should be valid with defaults: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown driver", "database:\n  driver: postgres\n", "database.driver"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"bad cron", "repair:\n  schedule: \"every night\"\n", "repair.schedule"},
		{"six-field cron", "repair:\n  schedule: \"0 0 3 * * *\"\n", "repair.schedule"},
		{"bad level", "log:\n  level: verbose\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
			}
			if !strings.Contains(err.Error(), "config: validation failed") {
				t.Errorf("error = %q, want validation prefix", err.Error())
			}
		})
	}
}

func TestParse_MultipleErrorsJoined(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: oracle\nlog:\n  format: xml\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "database.driver") || !strings.Contains(msg, "log.format") {
		t.Errorf("error = %q, want both problems reported", msg)
	}
	if !strings.Contains(msg, "; ") {
		t.Errorf("error = %q, want problems joined with '; '", msg)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("database: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yardplan.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Name != "yardplan_acme" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "yardplan_acme")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}
