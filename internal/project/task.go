package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/store"
	"gorm.io/gorm"
)

// TaskOpts holds parameters for creating a task.
type TaskOpts struct {
	OrganizationID string
	ProjectID      string
	Title          string
	Dates          schedule.Dates
	Deadline       *time.Time
}

// TaskUpdateOpts holds the task fields to change. A non-nil ProjectID moves
// the task to another project of the same organization.
type TaskUpdateOpts struct {
	Title         *string
	Dates         *schedule.Dates
	Deadline      *time.Time
	ClearDeadline bool
	ProjectID     *string
}

// CreateTask inserts a task under a project and cascades its dates.
func CreateTask(ctx context.Context, db *gorm.DB, eng *cascade.Engine, opts TaskOpts) (*models.Task, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("%w: project is required", ErrParent)
	}
	if err := schedule.ValidateFixed(opts.Dates); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := checkParent(db, opts.OrganizationID, opts.ProjectID); err != nil {
		return nil, err
	}
	n, err := store.ProjectChildCount(ctx, db, opts.ProjectID)
	if err != nil {
		return nil, err
	}

	t := models.Task{
		ID:             uuid.NewString(),
		OrganizationID: opts.OrganizationID,
		ProjectID:      opts.ProjectID,
		Title:          opts.Title,
		Deadline:       opts.Deadline,
	}
	t.SetDates(opts.Dates)
	if err := db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("project: create task: %w", err)
	}

	if err := propagateCreated(ctx, eng, t.ParentRef(), n == 0, opts.Dates); err != nil {
		return &t, err
	}
	return &t, nil
}

// GetTask retrieves a task of the organization.
func GetTask(db *gorm.DB, orgID, id string) (*models.Task, error) {
	var t models.Task
	if err := db.Where("organization_id = ? AND id = ?", orgID, id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("project: get task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns the tasks of a project ordered by start date then title.
func ListTasks(db *gorm.DB, orgID, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("organization_id = ? AND project_id = ?", orgID, projectID).
		Order("start_date ASC").Order("title ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("project: list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies opts to a task and cascades into the owning project, or
// into both projects when the task moves.
func UpdateTask(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string, opts TaskUpdateOpts) (*models.Task, error) {
	t, err := GetTask(db, orgID, id)
	if err != nil {
		return nil, err
	}

	tracker := schedule.NewTracker(schedule.Snapshot{Dates: t.Dates(), Parent: t.ParentRef()})
	cols := map[string]interface{}{}

	if opts.Title != nil {
		if strings.TrimSpace(*opts.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		cols["title"] = *opts.Title
	}
	switch {
	case opts.ClearDeadline:
		cols["deadline"] = nil
	case opts.Deadline != nil:
		cols["deadline"] = *opts.Deadline
	}
	if opts.Dates != nil {
		if err := schedule.ValidateFixed(*opts.Dates); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		tracker.UpdateDates(*opts.Dates)
		for k, v := range store.DateColumns(*opts.Dates, false) {
			cols[k] = v
		}
	}
	if opts.ProjectID != nil {
		if *opts.ProjectID == "" {
			return nil, fmt.Errorf("%w: a task needs a project", ErrParent)
		}
		if err := checkParent(db, orgID, *opts.ProjectID); err != nil {
			return nil, err
		}
		cols["project_id"] = *opts.ProjectID
		tracker.UpdateParent(schedule.SameType(*opts.ProjectID))
	}

	if len(cols) == 0 {
		return t, nil
	}
	if err := store.UpdateVersioned(ctx, db, &models.Task{}, "task", id, t.Version, cols); err != nil {
		return nil, err
	}

	updated, err := GetTask(db, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := eng.AfterUpdate(ctx, cascade.Projects, tracker); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteTask removes a task and recomputes its project.
func DeleteTask(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string) error {
	t, err := GetTask(db, orgID, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("project: delete task %s: %w", id, err)
	}
	return eng.AfterDelete(ctx, cascade.Projects, t.ParentRef())
}
