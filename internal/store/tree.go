package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/gorm"
)

// ProjectChildCount counts the direct children of a project: subprojects,
// contained root products and tasks.
func ProjectChildCount(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	var total int64
	counts := []struct {
		model interface{}
		where string
	}{
		{&models.Project{}, "parent_id = ?"},
		{&models.Product{}, "project_id = ? AND parent_id IS NULL"},
		{&models.Task{}, "project_id = ?"},
	}
	for _, c := range counts {
		var n int64
		if err := db.WithContext(ctx).Model(c.model).Where(c.where, id).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("store: count children of project %s: %w", id, err)
		}
		total += n
	}
	return total, nil
}

// ProductChildCount counts the direct children of a product: subproducts and
// value chains.
func ProductChildCount(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	var subs, chains int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Where("parent_id = ?", id).Count(&subs).Error; err != nil {
		return 0, fmt.Errorf("store: count children of product %s: %w", id, err)
	}
	if err := db.WithContext(ctx).Model(&models.ValueChain{}).Where("product_id = ?", id).Count(&chains).Error; err != nil {
		return 0, fmt.Errorf("store: count children of product %s: %w", id, err)
	}
	return subs + chains, nil
}

// IsProjectAncestor reports whether ancestor is id itself or lies on the
// parent chain above id.
func IsProjectAncestor(ctx context.Context, db *gorm.DB, ancestor, id string) (bool, error) {
	return isAncestor(ctx, db, &models.Project{}, ancestor, id)
}

// IsProductAncestor reports whether ancestor is id itself or lies on the
// parent chain above id.
func IsProductAncestor(ctx context.Context, db *gorm.DB, ancestor, id string) (bool, error) {
	return isAncestor(ctx, db, &models.Product{}, ancestor, id)
}

func isAncestor(ctx context.Context, db *gorm.DB, model interface{}, ancestor, id string) (bool, error) {
	seen := map[string]bool{}
	cur := id
	for cur != "" {
		if cur == ancestor {
			return true, nil
		}
		if seen[cur] {
			return false, fmt.Errorf("store: parent chain loops at %s", cur)
		}
		seen[cur] = true

		var parents []sql.NullString
		err := db.WithContext(ctx).Model(model).Where("id = ?", cur).Pluck("parent_id", &parents).Error
		if err != nil {
			return false, fmt.Errorf("store: walk parents of %s: %w", id, err)
		}
		if len(parents) == 0 || !parents[0].Valid {
			return false, nil
		}
		cur = parents[0].String
	}
	return false, nil
}
