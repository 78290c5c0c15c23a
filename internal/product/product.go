// Package product provides product and value chain lifecycle operations. A
// root product contained in a project feeds that project's dates, so product
// cascades may continue into the project hierarchy.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/project"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/store"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product or value chain does not exist in
	// the organization.
	ErrNotFound = errors.New("product: not found")
	// ErrInvalid is returned for unusable input.
	ErrInvalid = errors.New("product: invalid input")
	// ErrDerivedDates is returned when fixed dates are supplied for a product
	// that has children.
	ErrDerivedDates = errors.New("product: dates are derived from children")
	// ErrHasChildren is returned when deleting a product that still has
	// children.
	ErrHasChildren = errors.New("product: product has children")
	// ErrCycle is returned when a product would become its own ancestor.
	ErrCycle = errors.New("product: parent would create a cycle")
	// ErrParent is returned for an unusable parent: outside the organization,
	// or both a parent product and a containing project.
	ErrParent = errors.New("product: invalid parent")
)

// CreateOpts holds parameters for creating a product. At most one of
// ParentID and ProjectID may be set.
type CreateOpts struct {
	OrganizationID string
	ParentID       string
	ProjectID      string
	Name           string
	Description    string
	Dates          schedule.Dates
	Deadline       *time.Time
}

// ListFilters holds optional filters for listing products.
type ListFilters struct {
	ParentID  string
	ProjectID string
	RootsOnly bool
}

// UpdateOpts holds the fields to change. Setting a non-empty ParentID
// detaches the product from its project; setting a non-empty ProjectID makes
// it a root product of that project. An empty value clears that link.
type UpdateOpts struct {
	Name          *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Dates         *schedule.Dates
	ParentID      *string
	ProjectID     *string
}

// Create inserts a product and propagates it into its parent product or
// containing project.
func Create(ctx context.Context, db *gorm.DB, eng *cascade.Engine, opts CreateOpts) (*models.Product, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if opts.ParentID != "" && opts.ProjectID != "" {
		return nil, fmt.Errorf("%w: a subproduct cannot also belong to a project", ErrParent)
	}
	if err := schedule.ValidateFixed(opts.Dates); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p := models.Product{
		ID:             uuid.NewString(),
		OrganizationID: opts.OrganizationID,
		Name:           opts.Name,
		Description:    opts.Description,
		Deadline:       opts.Deadline,
	}
	p.SetDates(opts.Dates)
	if opts.ParentID != "" {
		p.ParentID = &opts.ParentID
	}
	if opts.ProjectID != "" {
		p.ProjectID = &opts.ProjectID
	}

	parent := p.ParentRef()
	parentWasLeaf, err := checkParent(ctx, db, opts.OrganizationID, parent)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("product: create: %w", err)
	}

	if err := propagateCreated(ctx, eng, parent, parentWasLeaf, opts.Dates); err != nil {
		return &p, err
	}
	return &p, nil
}

// Get retrieves a product of the organization.
func Get(db *gorm.DB, orgID, id string) (*models.Product, error) {
	var p models.Product
	if err := db.Where("organization_id = ? AND id = ?", orgID, id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("product: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns the organization's products matching the filters, ordered by
// name.
func List(db *gorm.DB, orgID string, filters ListFilters) ([]models.Product, error) {
	q := db.Where("organization_id = ?", orgID)
	if filters.ParentID != "" {
		q = q.Where("parent_id = ?", filters.ParentID)
	} else if filters.RootsOnly {
		q = q.Where("parent_id IS NULL")
	}
	if filters.ProjectID != "" {
		q = q.Where("project_id = ?", filters.ProjectID)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("product: list: %w", err)
	}
	return products, nil
}

// Update applies opts to a product and cascades date or parent changes. A
// move between a parent product and a containing project cascades into both
// hierarchies.
func Update(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string, opts UpdateOpts) (*models.Product, error) {
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
	switch {
	case opts.ClearDeadline:
		cols["deadline"] = nil
	case opts.Deadline != nil:
		cols["deadline"] = *opts.Deadline
	}

	if opts.Dates != nil {
		n, err := store.ProductChildCount(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: product %s has %d children", ErrDerivedDates, id, n)
		}
		if err := schedule.ValidateFixed(*opts.Dates); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		tracker.UpdateDates(*opts.Dates)
		for k, v := range store.DateColumns(*opts.Dates, false) {
			cols[k] = v
		}
	}

	if opts.ParentID != nil || opts.ProjectID != nil {
		parentID, projectID := deref(p.ParentID), deref(p.ProjectID)
		switch {
		case opts.ParentID != nil && opts.ProjectID != nil:
			parentID, projectID = *opts.ParentID, *opts.ProjectID
		case opts.ParentID != nil:
			parentID = *opts.ParentID
			if parentID != "" {
				projectID = ""
			}
		default:
			projectID = *opts.ProjectID
			if projectID != "" {
				parentID = ""
			}
		}
		if parentID != "" && projectID != "" {
			return nil, fmt.Errorf("%w: a subproduct cannot also belong to a project", ErrParent)
		}

		next := schedule.ParentFromColumns(optional(parentID), optional(projectID))
		if _, err := checkParent(ctx, db, orgID, next); err != nil {
			return nil, err
		}
		if parentID != "" {
			cyclic, err := store.IsProductAncestor(ctx, db, id, parentID)
			if err != nil {
				return nil, err
			}
			if cyclic {
				return nil, fmt.Errorf("%w: %s under %s", ErrCycle, id, parentID)
			}
		}
		cols["parent_id"] = nullable(parentID)
		cols["project_id"] = nullable(projectID)
		tracker.UpdateParent(next)
	}

	if len(cols) == 0 {
		return p, nil
	}
	if err := store.UpdateVersioned(ctx, db, &models.Product{}, "product", id, p.Version, cols); err != nil {
		return nil, err
	}

	updated, err := Get(db, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := eng.AfterUpdate(ctx, cascade.Products, tracker); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a childless product and recomputes its former parent.
func Delete(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string) error {
	p, err := Get(db, orgID, id)
	if err != nil {
		return err
	}
	n, err := store.ProductChildCount(ctx, db, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: product %s has %d children", ErrHasChildren, id, n)
	}

	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error; err != nil {
		return fmt.Errorf("product: delete %s: %w", id, err)
	}
	return eng.AfterDelete(ctx, cascade.Products, p.ParentRef())
}

// checkParent verifies that parent belongs to the organization and reports
// whether it currently has no children.
func checkParent(ctx context.Context, db *gorm.DB, orgID string, parent schedule.ParentRef) (bool, error) {
	var (
		n   int64
		err error
	)
	switch parent.Kind {
	case schedule.ParentSameType:
		if _, err := Get(db, orgID, parent.ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return false, fmt.Errorf("%w: product %s not in organization", ErrParent, parent.ID)
			}
			return false, err
		}
		n, err = store.ProductChildCount(ctx, db, parent.ID)
	case schedule.ParentContainer:
		if _, err := project.Get(db, orgID, parent.ID); err != nil {
			if errors.Is(err, project.ErrNotFound) {
				return false, fmt.Errorf("%w: project %s not in organization", ErrParent, parent.ID)
			}
			return false, err
		}
		n, err = store.ProjectChildCount(ctx, db, parent.ID)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// propagateCreated pushes a new child into its parent. A parent that was a
// leaf until now switches from fixed to derived dates and is recomputed in
// full.
func propagateCreated(ctx context.Context, eng *cascade.Engine, parent schedule.ParentRef, parentWasLeaf bool, fixed schedule.Dates) error {
	if parentWasLeaf {
		return eng.Propagate(ctx, cascade.Products, parent, schedule.ModeFull)
	}
	return eng.AfterCreate(ctx, cascade.Products, parent, fixed)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
