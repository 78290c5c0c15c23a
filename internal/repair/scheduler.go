package repair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/config"
	"gorm.io/gorm"
)

// Scheduler runs a full repair of all organizations on a cron schedule.
type Scheduler struct {
	db       *gorm.DB
	eng      *cascade.Engine
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewScheduler parses a 5-field cron expression. If logger is nil,
// slog.Default() is used.
func NewScheduler(db *gorm.DB, eng *cascade.Engine, expr string, logger *slog.Logger) (*Scheduler, error) {
	sched, err := config.CronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("repair: parse schedule %q: %w", expr, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{db: db, eng: eng, schedule: sched, logger: logger}, nil
}

// Next returns the duration from now until the next run.
func (s *Scheduler) Next(now time.Time) time.Duration {
	d := s.schedule.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Run blocks, repairing at every scheduled time, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(s.Next(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if _, err := Run(ctx, s.db, s.eng, "", s.logger); err != nil {
				s.logger.Error("scheduled repair", slog.Any("error", err))
			}
			timer.Reset(s.Next(time.Now()))
		}
	}
}
