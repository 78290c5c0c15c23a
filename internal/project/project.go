// Package project provides project and task lifecycle operations. Every write
// that touches dates or parent linkage is followed by a cascade through the
// engine so ancestors keep their derived dates.
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
	"github.com/zulandar/yardplan/internal/tenant"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a project or task does not exist in the
	// organization.
	ErrNotFound = errors.New("project: not found")
	// ErrInvalid is returned for unusable input.
	ErrInvalid = errors.New("project: invalid input")
	// ErrDerivedDates is returned when fixed dates are supplied for a project
	// that has children.
	ErrDerivedDates = errors.New("project: dates are derived from children")
	// ErrHasChildren is returned when deleting a project that still has
	// children.
	ErrHasChildren = errors.New("project: project has children")
	// ErrCycle is returned when a project would become its own ancestor.
	ErrCycle = errors.New("project: parent would create a cycle")
	// ErrParent is returned when the parent does not belong to the
	// organization.
	ErrParent = errors.New("project: invalid parent")
)

// CreateOpts holds parameters for creating a project.
type CreateOpts struct {
	OrganizationID string
	CustomerID     string
	ParentID       string
	Name           string
	Description    string
	Dates          schedule.Dates
	Deadline       *time.Time
}

// ListFilters holds optional filters for listing projects.
type ListFilters struct {
	ParentID   string
	CustomerID string
	RootsOnly  bool
}

// UpdateOpts holds the fields to change. Nil fields are left untouched. An
// empty ParentID moves the project to the root; an empty CustomerID detaches
// the customer.
type UpdateOpts struct {
	Name          *string
	Description   *string
	CustomerID    *string
	Deadline      *time.Time
	ClearDeadline bool
	Dates         *schedule.Dates
	ParentID      *string
}

// Create inserts a project and propagates it into its parent.
func Create(ctx context.Context, db *gorm.DB, eng *cascade.Engine, opts CreateOpts) (*models.Project, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := schedule.ValidateFixed(opts.Dates); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p := models.Project{
		ID:             uuid.NewString(),
		OrganizationID: opts.OrganizationID,
		Name:           opts.Name,
		Description:    opts.Description,
		Deadline:       opts.Deadline,
	}
	p.SetDates(opts.Dates)

	if opts.CustomerID != "" {
		if err := checkCustomer(db, opts.OrganizationID, opts.CustomerID); err != nil {
			return nil, err
		}
		p.CustomerID = &opts.CustomerID
	}

	parentWasLeaf := false
	if opts.ParentID != "" {
		if err := checkParent(db, opts.OrganizationID, opts.ParentID); err != nil {
			return nil, err
		}
		n, err := store.ProjectChildCount(ctx, db, opts.ParentID)
		if err != nil {
			return nil, err
		}
		parentWasLeaf = n == 0
		p.ParentID = &opts.ParentID
	}

	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}

	if err := propagateCreated(ctx, eng, p.ParentRef(), parentWasLeaf, opts.Dates); err != nil {
		return &p, err
	}
	return &p, nil
}

// Get retrieves a project of the organization.
func Get(db *gorm.DB, orgID, id string) (*models.Project, error) {
	var p models.Project
	if err := db.Where("organization_id = ? AND id = ?", orgID, id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns the organization's projects matching the filters, ordered by
// name.
func List(db *gorm.DB, orgID string, filters ListFilters) ([]models.Project, error) {
	q := db.Where("organization_id = ?", orgID)
	if filters.ParentID != "" {
		q = q.Where("parent_id = ?", filters.ParentID)
	} else if filters.RootsOnly {
		q = q.Where("parent_id IS NULL")
	}
	if filters.CustomerID != "" {
		q = q.Where("customer_id = ?", filters.CustomerID)
	}

	var projects []models.Project
	if err := q.Order("name ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// Update applies opts to a project and cascades date or parent changes. The
// row is written with a compare-and-swap on its version; a concurrent write
// yields cascade.ErrConflict.
func Update(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string, opts UpdateOpts) (*models.Project, error) {
	p, err := Get(db, orgID, id)
	if err != nil {
		return nil, err
	}

	tracker := schedule.NewTracker(schedule.Snapshot{Dates: p.Dates(), Parent: p.ParentRef()})
	cols := map[string]interface{}{}

	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalid)
		}
		cols["name"] = *opts.Name
	}
	if opts.Description != nil {
		cols["description"] = *opts.Description
	}
	if opts.CustomerID != nil {
		if *opts.CustomerID == "" {
			cols["customer_id"] = nil
		} else {
			if err := checkCustomer(db, orgID, *opts.CustomerID); err != nil {
				return nil, err
			}
			cols["customer_id"] = *opts.CustomerID
		}
	}
	switch {
	case opts.ClearDeadline:
		cols["deadline"] = nil
	case opts.Deadline != nil:
		cols["deadline"] = *opts.Deadline
	}

	if opts.Dates != nil {
		n, err := store.ProjectChildCount(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: project %s has %d children", ErrDerivedDates, id, n)
		}
		if err := schedule.ValidateFixed(*opts.Dates); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		tracker.UpdateDates(*opts.Dates)
		for k, v := range store.DateColumns(*opts.Dates, false) {
			cols[k] = v
		}
	}

	if opts.ParentID != nil {
		parentID := *opts.ParentID
		if parentID == "" {
			cols["parent_id"] = nil
		} else {
			if err := checkParent(db, orgID, parentID); err != nil {
				return nil, err
			}
			cyclic, err := store.IsProjectAncestor(ctx, db, id, parentID)
			if err != nil {
				return nil, err
			}
			if cyclic {
				return nil, fmt.Errorf("%w: %s under %s", ErrCycle, id, parentID)
			}
			cols["parent_id"] = parentID
		}
		tracker.UpdateParent(schedule.SameType(parentID))
	}

	if len(cols) == 0 {
		return p, nil
	}
	if err := store.UpdateVersioned(ctx, db, &models.Project{}, "project", id, p.Version, cols); err != nil {
		return nil, err
	}

	updated, err := Get(db, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := eng.AfterUpdate(ctx, cascade.Projects, tracker); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a childless project and recomputes its former parent.
func Delete(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string) error {
	p, err := Get(db, orgID, id)
	if err != nil {
		return err
	}
	n, err := store.ProjectChildCount(ctx, db, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: project %s has %d children", ErrHasChildren, id, n)
	}

	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{}).Error; err != nil {
		return fmt.Errorf("project: delete %s: %w", id, err)
	}
	return eng.AfterDelete(ctx, cascade.Projects, p.ParentRef())
}

func checkParent(db *gorm.DB, orgID, parentID string) error {
	if _, err := Get(db, orgID, parentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: project %s not in organization", ErrParent, parentID)
		}
		return err
	}
	return nil
}

func checkCustomer(db *gorm.DB, orgID, customerID string) error {
	if _, err := tenant.GetCustomer(db, orgID, customerID); err != nil {
		if errors.Is(err, tenant.ErrNotFound) {
			return fmt.Errorf("%w: customer %s not in organization", ErrInvalid, customerID)
		}
		return err
	}
	return nil
}

// propagateCreated pushes a new child into its parent. A parent that was a
// leaf until now switches from fixed to derived dates, so it is recomputed in
// full rather than in the mode of the child's supplied dates.
func propagateCreated(ctx context.Context, eng *cascade.Engine, parent schedule.ParentRef, parentWasLeaf bool, fixed schedule.Dates) error {
	if parentWasLeaf {
		return eng.Propagate(ctx, cascade.Projects, parent, schedule.ModeFull)
	}
	return eng.AfterCreate(ctx, cascade.Projects, parent, fixed)
}
