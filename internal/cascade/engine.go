package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zulandar/yardplan/internal/schedule"
)

// Engine owns one coordinator per hierarchy and routes cascades between them.
type Engine struct {
	projects *Coordinator
	products *Coordinator
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for cascade steps. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine builds an engine over the stores of both hierarchies.
func NewEngine(projects, products Store, opts ...Option) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.projects = &Coordinator{hierarchy: Projects, store: projects, engine: e}
	e.products = &Coordinator{hierarchy: Products, store: products, engine: e}
	return e
}

// Coordinator returns the coordinator for h, or nil for an unknown hierarchy.
func (e *Engine) Coordinator(h Hierarchy) *Coordinator {
	switch h {
	case Projects:
		return e.projects
	case Products:
		return e.products
	}
	return nil
}

// route resolves the coordinator owning parent, seen from a node in hierarchy from.
func (e *Engine) route(from Hierarchy, parent schedule.ParentRef) (*Coordinator, error) {
	switch parent.Kind {
	case schedule.ParentSameType:
		if c := e.Coordinator(from); c != nil {
			return c, nil
		}
	case schedule.ParentContainer:
		if h, ok := from.container(); ok {
			return e.Coordinator(h), nil
		}
	}
	return nil, fmt.Errorf("cascade: no coordinator for %s parent of a %s node", parent.Kind, from)
}

// Recalculate runs a cascade starting at node id of hierarchy h.
func (e *Engine) Recalculate(ctx context.Context, h Hierarchy, id string, mode schedule.Mode) error {
	c := e.Coordinator(h)
	if c == nil {
		return fmt.Errorf("cascade: unknown hierarchy %q", h)
	}
	return c.RecalculateDates(ctx, id, mode)
}

// Propagate starts a cascade at parent, as seen from a child living in
// hierarchy from. A root parent is a no-op.
func (e *Engine) Propagate(ctx context.Context, from Hierarchy, parent schedule.ParentRef, mode schedule.Mode) error {
	if parent.IsRoot() {
		return nil
	}
	c, err := e.route(from, parent)
	if err != nil {
		return err
	}
	return c.RecalculateDates(ctx, parent.ID, mode)
}

// AfterCreate propagates a newly created node of hierarchy h. The mode follows
// from which fixed dates were supplied; nothing happens for roots or when no
// date was supplied.
func (e *Engine) AfterCreate(ctx context.Context, h Hierarchy, parent schedule.ParentRef, fixed schedule.Dates) error {
	mode, ok := schedule.ModeFor(fixed.Supplied())
	if !ok || parent.IsRoot() {
		return nil
	}
	return e.Propagate(ctx, h, parent, mode)
}

// AfterUpdate propagates a tracked update of a node of hierarchy h. Without a
// reparent the current parent gets the tracker's mode. On a reparent the new
// parent is evaluated in full, since every dimension of the incoming child is
// new to it, and then the former parent is recomputed in full because it lost
// a contributor.
func (e *Engine) AfterUpdate(ctx context.Context, h Hierarchy, tracker *schedule.Tracker) error {
	if !tracker.ParentChanged() {
		if !tracker.NeedChangeDates() {
			return nil
		}
		mode, err := tracker.Mode()
		if err != nil {
			return err
		}
		return e.Propagate(ctx, h, tracker.Parent(schedule.New), mode)
	}

	if err := e.Propagate(ctx, h, tracker.Parent(schedule.New), schedule.ModeFull); err != nil {
		return err
	}
	return e.Propagate(ctx, h, tracker.Parent(schedule.Old), schedule.ModeFull)
}

// AfterDelete recomputes the former parent of a deleted node in full.
func (e *Engine) AfterDelete(ctx context.Context, h Hierarchy, formerParent schedule.ParentRef) error {
	return e.Propagate(ctx, h, formerParent, schedule.ModeFull)
}
