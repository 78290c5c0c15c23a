package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zulandar/yardplan/internal/schedule"
)

// Coordinator recomputes and persists the nodes of one hierarchy.
type Coordinator struct {
	hierarchy Hierarchy
	store     Store
	engine    *Engine
}

// Hierarchy returns the tree this coordinator owns.
func (c *Coordinator) Hierarchy() Hierarchy {
	return c.hierarchy
}

// RecalculateDates recomputes the dimensions selected by mode on node id from
// its children. When the result differs from what is stored, the node is saved
// and the parent is recalculated with the narrowest mode covering what
// changed; otherwise the cascade stops here. The first error aborts the
// cascade; ancestors already written keep their new dates.
func (c *Coordinator) RecalculateDates(ctx context.Context, id string, mode schedule.Mode) error {
	depth, err := c.recalculate(ctx, id, mode, 1)
	cascadeDepth.WithLabelValues(string(c.hierarchy)).Observe(float64(depth))
	return err
}

// Refresh fully recomputes node id without climbing to its parent. It reports
// whether the node was written. A node without children holds fixed dates and
// is left untouched.
func (c *Coordinator) Refresh(ctx context.Context, id string) (bool, error) {
	res, err := c.step(ctx, id, schedule.ModeFull, true)
	if err != nil {
		return false, err
	}
	return res.written, nil
}

type stepResult struct {
	node    Node
	written bool
	next    schedule.Mode
}

func (c *Coordinator) recalculate(ctx context.Context, id string, mode schedule.Mode, depth int) (int, error) {
	res, err := c.step(ctx, id, mode, false)
	if err != nil || !res.written {
		return depth, err
	}

	parent := res.node.Parent
	if parent.IsRoot() {
		return depth, nil
	}
	next, err := c.engine.route(c.hierarchy, parent)
	if err != nil {
		return depth, fmt.Errorf("cascade: %s %s: %w", c.hierarchy, id, err)
	}
	return next.recalculate(ctx, parent.ID, res.next, depth+1)
}

// step performs load, recompute, compare and save for a single node. With
// keepLeaf set, a childless node is pruned instead of emptied.
func (c *Coordinator) step(ctx context.Context, id string, mode schedule.Mode, keepLeaf bool) (stepResult, error) {
	log := c.engine.logger.With(
		slog.String("hierarchy", string(c.hierarchy)),
		slog.String("node", id),
		slog.String("mode", mode.String()),
	)

	node, err := c.store.LoadNode(ctx, id)
	if err != nil {
		observeStep(c.hierarchy, resultError)
		log.Warn("cascade load failed", slog.Any("error", err))
		return stepResult{}, fmt.Errorf("cascade: %s %s: load: %w", c.hierarchy, id, err)
	}

	if keepLeaf && len(node.Children) == 0 {
		observeStep(c.hierarchy, resultPruned)
		log.Debug("cascade skipped leaf")
		return stepResult{node: node}, nil
	}

	tracker := schedule.NewTracker(schedule.Snapshot{Dates: node.Dates, Parent: node.Parent})
	recomputed := schedule.Recompute(node.Dates, node.Children, mode)
	tracker.UpdateDates(recomputed, mode.Dimensions()...)

	if !tracker.NeedChangeDates() {
		observeStep(c.hierarchy, resultPruned)
		log.Debug("cascade pruned")
		return stepResult{node: node}, nil
	}

	if err := c.store.SaveDates(ctx, id, node.Version, recomputed); err != nil {
		observeStep(c.hierarchy, resultError)
		log.Warn("cascade save failed", slog.Any("error", err))
		return stepResult{}, fmt.Errorf("cascade: %s %s: save: %w", c.hierarchy, id, err)
	}

	next, err := tracker.Mode()
	if err != nil {
		return stepResult{}, fmt.Errorf("cascade: %s %s: %w", c.hierarchy, id, err)
	}
	observeStep(c.hierarchy, resultWritten)
	log.Debug("cascade wrote node", slog.String("next_mode", next.String()))

	node.Version++
	node.Dates = recomputed
	return stepResult{node: node, written: true, next: next}, nil
}
