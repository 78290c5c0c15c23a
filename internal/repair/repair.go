// Package repair recomputes every derived date of an organization from the
// leaves up. It heals nodes left stale by an aborted cascade or a lost
// optimistic write.
package repair

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/models"
	"gorm.io/gorm"
)

var repairNodes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yardplan_repair_nodes_total",
	Help: "Nodes visited by tree repair, by result.",
}, []string{"result"})

// Report summarizes one repair run.
type Report struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

func (r *Report) add(o Report) {
	r.Checked += o.Checked
	r.Updated += o.Updated
	r.Failed += o.Failed
}

// Run refreshes every product, then every project, of organization orgID, or
// of all organizations when orgID is empty. Within a hierarchy nodes are
// visited deepest first so each parent is recomputed after its children.
// Node failures are counted and joined into the returned error; the run goes
// on past them.
func Run(ctx context.Context, db *gorm.DB, eng *cascade.Engine, orgID string, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var report Report
	var errs []error
	for _, h := range []struct {
		hierarchy cascade.Hierarchy
		model     interface{}
	}{
		{cascade.Products, &models.Product{}},
		{cascade.Projects, &models.Project{}},
	} {
		ids, err := deepestFirst(ctx, db, h.model, orgID)
		if err != nil {
			return report, fmt.Errorf("repair: list %s nodes: %w", h.hierarchy, err)
		}
		r, err := refresh(ctx, eng.Coordinator(h.hierarchy), ids, logger)
		report.add(r)
		if err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
	}

	logger.Info("repair finished",
		slog.String("organization", orgID),
		slog.Int("checked", report.Checked),
		slog.Int("updated", report.Updated),
		slog.Int("failed", report.Failed),
	)
	return report, errors.Join(errs...)
}

func refresh(ctx context.Context, c *cascade.Coordinator, ids []string, logger *slog.Logger) (Report, error) {
	var report Report
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		report.Checked++
		written, err := c.Refresh(ctx, id)
		switch {
		case err != nil:
			report.Failed++
			repairNodes.WithLabelValues("error").Inc()
			logger.Warn("repair node failed",
				slog.String("hierarchy", string(c.Hierarchy())),
				slog.String("node", id),
				slog.Any("error", err),
			)
			errs = append(errs, err)
		case written:
			report.Updated++
			repairNodes.WithLabelValues("updated").Inc()
		default:
			repairNodes.WithLabelValues("unchanged").Inc()
		}
	}
	return report, errors.Join(errs...)
}

type link struct {
	ID       string
	ParentID sql.NullString
}

// deepestFirst lists the ids of model ordered by descending depth in their
// same-type hierarchy.
func deepestFirst(ctx context.Context, db *gorm.DB, model interface{}, orgID string) ([]string, error) {
	q := db.WithContext(ctx).Model(model).Select("id", "parent_id")
	if orgID != "" {
		q = q.Where("organization_id = ?", orgID)
	}
	var links []link
	if err := q.Order("id ASC").Scan(&links).Error; err != nil {
		return nil, err
	}

	parents := make(map[string]string, len(links))
	for _, l := range links {
		if l.ParentID.Valid {
			parents[l.ID] = l.ParentID.String
		}
	}
	depth := make(map[string]int, len(links))
	var depthOf func(id string, seen int) int
	depthOf = func(id string, seen int) int {
		if d, ok := depth[id]; ok {
			return d
		}
		p, ok := parents[id]
		if !ok || seen > len(links) {
			depth[id] = 0
			return 0
		}
		d := depthOf(p, seen+1) + 1
		depth[id] = d
		return d
	}

	ids := make([]string, len(links))
	for i, l := range links {
		depthOf(l.ID, 0)
		ids[i] = l.ID
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return depth[ids[i]] > depth[ids[j]]
	})
	return ids, nil
}
