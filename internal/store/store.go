// Package store implements the cascade persistence for both hierarchies on
// top of gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"github.com/zulandar/yardplan/internal/schedule"
	"gorm.io/gorm"
)

// ProjectStore loads and saves project nodes. A project's children are its
// subprojects, the root products it contains, and its tasks.
type ProjectStore struct {
	db *gorm.DB
}

// NewProjectStore returns a store backed by db.
func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// LoadNode implements cascade.Store.
func (s *ProjectStore) LoadNode(ctx context.Context, id string) (cascade.Node, error) {
	var p models.Project
	err := s.db.WithContext(ctx).
		Preload("Subprojects").
		Preload("Products", "parent_id IS NULL").
		Preload("Tasks").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cascade.Node{}, fmt.Errorf("store: project %s: %w", id, cascade.ErrNotFound)
		}
		return cascade.Node{}, fmt.Errorf("store: load project %s: %w", id, err)
	}

	node := cascade.Node{ID: p.ID, Dates: p.Dates(), Parent: p.ParentRef(), Version: p.Version}
	for i := range p.Subprojects {
		node.Children = append(node.Children, p.Subprojects[i].Dates())
	}
	for i := range p.Products {
		node.Children = append(node.Children, p.Products[i].Dates())
	}
	for i := range p.Tasks {
		node.Children = append(node.Children, p.Tasks[i].Dates())
	}
	return node, nil
}

// SaveDates implements cascade.Store.
func (s *ProjectStore) SaveDates(ctx context.Context, id string, version int64, dates schedule.Dates) error {
	return saveDates(ctx, s.db, &models.Project{}, "project", id, version, dates)
}

// ProductStore loads and saves product nodes. A product's children are its
// subproducts and its value chains.
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore returns a store backed by db.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// LoadNode implements cascade.Store.
func (s *ProductStore) LoadNode(ctx context.Context, id string) (cascade.Node, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Preload("Subproducts").
		Preload("ValueChains").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cascade.Node{}, fmt.Errorf("store: product %s: %w", id, cascade.ErrNotFound)
		}
		return cascade.Node{}, fmt.Errorf("store: load product %s: %w", id, err)
	}

	node := cascade.Node{ID: p.ID, Dates: p.Dates(), Parent: p.ParentRef(), Version: p.Version}
	for i := range p.Subproducts {
		node.Children = append(node.Children, p.Subproducts[i].Dates())
	}
	for i := range p.ValueChains {
		node.Children = append(node.Children, p.ValueChains[i].Dates())
	}
	return node, nil
}

// SaveDates implements cascade.Store.
func (s *ProductStore) SaveDates(ctx context.Context, id string, version int64, dates schedule.Dates) error {
	return saveDates(ctx, s.db, &models.Product{}, "product", id, version, dates)
}

// NewEngine wires a cascade engine over gorm stores for both hierarchies.
func NewEngine(db *gorm.DB, opts ...cascade.Option) *cascade.Engine {
	return cascade.NewEngine(NewProjectStore(db), NewProductStore(db), opts...)
}

// saveDates writes derived dates with a compare-and-swap on version.
func saveDates(ctx context.Context, db *gorm.DB, model interface{}, kind, id string, version int64, dates schedule.Dates) error {
	return UpdateVersioned(ctx, db, model, kind, id, version, DateColumns(dates, false))
}

// UpdateVersioned writes cols to row id only if it is still at version, and
// bumps the version. A missing row yields cascade.ErrNotFound, a row at a
// different version cascade.ErrConflict.
func UpdateVersioned(ctx context.Context, db *gorm.DB, model interface{}, kind, id string, version int64, cols map[string]interface{}) error {
	cols["version"] = gorm.Expr("version + ?", 1)
	res := db.WithContext(ctx).Model(model).
		Where("id = ? AND version = ?", id, version).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("store: save %s %s: %w", kind, id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("store: check %s %s: %w", kind, id, err)
	}
	if count == 0 {
		return fmt.Errorf("store: %s %s: %w", kind, id, cascade.ErrNotFound)
	}
	return fmt.Errorf("store: %s %s at version %d: %w", kind, id, version, cascade.ErrConflict)
}

// DateColumns maps dates onto their columns for a gorm Updates call. Unset
// dates become NULL. With bump, the version column is incremented.
func DateColumns(dates schedule.Dates, bump bool) map[string]interface{} {
	cols := map[string]interface{}{
		"available_date": nullable(dates.Available),
		"start_date":     nullable(dates.Start),
		"end_date":       nullable(dates.End),
	}
	if bump {
		cols["version"] = gorm.Expr("version + ?", 1)
	}
	return cols
}

func nullable(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
