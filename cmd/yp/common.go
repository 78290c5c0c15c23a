package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/config"
	"github.com/zulandar/yardplan/internal/db"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/store"
	"github.com/zulandar/yardplan/internal/tenant"
	"gorm.io/gorm"
)

const defaultConfigPath = "yardplan.yaml"

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, gormDB, nil
}

// session is what data commands work with: a connection, an engine logging
// through the configured handler, and the resolved organization.
type session struct {
	cfg    *config.Config
	db     *gorm.DB
	eng    *cascade.Engine
	logger *slog.Logger
	orgID  string
}

func openSession(cmd *cobra.Command, configPath, org string) (*session, error) {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	s := &session{
		cfg:    cfg,
		db:     gormDB,
		eng:    store.NewEngine(gormDB, cascade.WithLogger(logger)),
		logger: logger,
	}
	if org != "" {
		o, err := tenant.GetOrganization(gormDB, org)
		if err != nil {
			return nil, err
		}
		s.orgID = o.ID
	}
	return s, nil
}

// newLogger builds the slog logger described by the log section of the config.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", defaultConfigPath, "path to yardplan config file")
}

func addOrgFlag(cmd *cobra.Command, org *string) {
	cmd.Flags().StringVarP(org, "org", "o", "", "organization id or slug (required)")
	cmd.MarkFlagRequired("org")
}

// dateFlags binds --available, --start and --end.
type dateFlags struct {
	available string
	start     string
	end       string
}

func (f *dateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.available, "available", "", "available date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
}

// dates parses all three flags.
func (f *dateFlags) dates() (schedule.Dates, error) {
	var d schedule.Dates
	var err error
	if d.Available, err = schedule.ParseDate(f.available); err != nil {
		return d, fmt.Errorf("--available: %w", err)
	}
	if d.Start, err = schedule.ParseDate(f.start); err != nil {
		return d, fmt.Errorf("--start: %w", err)
	}
	if d.End, err = schedule.ParseDate(f.end); err != nil {
		return d, fmt.Errorf("--end: %w", err)
	}
	return d, nil
}

// overlay returns current with the explicitly set flags applied, or nil when
// none was set. An empty value clears that date.
func (f *dateFlags) overlay(cmd *cobra.Command, current schedule.Dates) (*schedule.Dates, error) {
	changed := false
	next := current
	for _, fl := range []struct {
		name  string
		value string
		dim   schedule.Dimension
	}{
		{"available", f.available, schedule.Available},
		{"start", f.start, schedule.Start},
		{"end", f.end, schedule.End},
	} {
		if !cmd.Flags().Changed(fl.name) {
			continue
		}
		t, err := schedule.ParseDate(fl.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", fl.name, err)
		}
		next = next.With(fl.dim, t)
		changed = true
	}
	if !changed {
		return nil, nil
	}
	return &next, nil
}

// optionalString returns a pointer to the flag value when it was set.
func optionalString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// deadlineFlag parses --deadline for updates: unset leaves it, empty clears it.
func deadlineFlag(cmd *cobra.Command, value string) (*time.Time, bool, error) {
	if !cmd.Flags().Changed("deadline") {
		return nil, false, nil
	}
	if value == "" {
		return nil, true, nil
	}
	t, err := schedule.ParseDate(value)
	if err != nil {
		return nil, false, fmt.Errorf("--deadline: %w", err)
	}
	return t, false, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
