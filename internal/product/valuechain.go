package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/schedule"
	"github.com/zulandar/yardplan/internal/store"
	"gorm.io/gorm"
)

// ValueChainOpts holds parameters for creating a value chain.
type ValueChainOpts struct {
	OrganizationID string
	ProductID      string
	Name           string
	Dates          schedule.Dates
}

// ValueChainUpdateOpts holds the value chain fields to change. A non-nil
// ProductID moves the chain to another product.
type ValueChainUpdateOpts struct {
	Name      *string
	Dates     *schedule.Dates
	ProductID *string
}

// CreateValueChain inserts a value chain under a product and cascades its
// dates.
func CreateValueChain(ctx context.Context, db *gorm.DB, eng *cascade.Engine, opts ValueChainOpts) (*models.ValueChain, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if opts.ProductID == "" {
		return nil, fmt.Errorf("%w: product is required", ErrParent)
	}
	if err := schedule.ValidateFixed(opts.Dates); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	v := models.ValueChain{
		ID:             uuid.NewString(),
		OrganizationID: opts.OrganizationID,
		ProductID:      opts.ProductID,
		Name:           opts.Name,
	}
	v.SetDates(opts.Dates)

	parentWasLeaf, err := checkParent(ctx, db, opts.OrganizationID, v.ParentRef())
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(&v).Error; err != nil {
		return nil, fmt.Errorf("product: create value chain: %w", err)
	}

	if err := propagateCreated(ctx, eng, v.ParentRef(), parentWasLeaf, opts.Dates); err != nil {
		return &v, err
	}
	return &v, nil
}

// GetValueChain retrieves a value chain of the organization.
func GetValueChain(db *gorm.DB, orgID, id string) (*models.ValueChain, error) {
	var v models.ValueChain
	if err := db.Where("organization_id = ? AND id = ?", orgID, id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: value chain %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("product: get value chain %s: %w", id, err)
	}
	return &v, nil
}

// ListValueChains returns the value chains of a product ordered by name.
func ListValueChains(db *gorm.DB, orgID, productID string) ([]models.ValueChain, error) {
	var chains []models.ValueChain
	err := db.Where("organization_id = ? AND product_id = ?", orgID, productID).
		Order("name ASC").
		Find(&chains).Error
	if err != nil {
		return nil, fmt.Errorf("product: list value chains: %w", err)
	}
	return chains, nil
}

// UpdateValueChain applies opts to a value chain and cascades into its
// product, or into both products when it moves.
func UpdateValueChain(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string, opts ValueChainUpdateOpts) (*models.ValueChain, error) {
	v, err := GetValueChain(db, orgID, id)
	if err != nil {
		return nil, err
	}

	tracker := schedule.NewTracker(schedule.Snapshot{Dates: v.Dates(), Parent: v.ParentRef()})
	cols := map[string]interface{}{}

	if opts.Name != nil {
		if strings.TrimSpace(*opts.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalid)
		}
		cols["name"] = *opts.Name
	}
	if opts.Dates != nil {
		if err := schedule.ValidateFixed(*opts.Dates); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		tracker.UpdateDates(*opts.Dates)
		for col, val := range store.DateColumns(*opts.Dates, false) {
			cols[col] = val
		}
	}
	if opts.ProductID != nil {
		if *opts.ProductID == "" {
			return nil, fmt.Errorf("%w: a value chain needs a product", ErrParent)
		}
		next := schedule.SameType(*opts.ProductID)
		if _, err := checkParent(ctx, db, orgID, next); err != nil {
			return nil, err
		}
		cols["product_id"] = *opts.ProductID
		tracker.UpdateParent(next)
	}

	if len(cols) == 0 {
		return v, nil
	}
	if err := store.UpdateVersioned(ctx, db, &models.ValueChain{}, "value chain", id, v.Version, cols); err != nil {
		return nil, err
	}

	updated, err := GetValueChain(db, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := eng.AfterUpdate(ctx, cascade.Products, tracker); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteValueChain removes a value chain and recomputes its product.
func DeleteValueChain(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID, id string) error {
	v, err := GetValueChain(db, orgID, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("id = ?", id).Delete(&models.ValueChain{}).Error; err != nil {
		return fmt.Errorf("product: delete value chain %s: %w", id, err)
	}
	return eng.AfterDelete(ctx, cascade.Products, v.ParentRef())
}
