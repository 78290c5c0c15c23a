// Package cascade keeps derived dates consistent up the project and product
// hierarchies. A Coordinator per hierarchy recomputes one node from its
// children, persists it only when something changed, and climbs to the parent
// with the narrowest mode; the Engine wires both coordinators together and
// implements the contract mutation workflows call after create, update and
// delete.
package cascade

import (
	"context"
	"errors"

	"github.com/zulandar/yardplan/internal/schedule"
)

var (
	// ErrNotFound is returned when a node referenced during a cascade does not resolve.
	ErrNotFound = errors.New("cascade: node not found")
	// ErrConflict is returned when a save loses an optimistic version check.
	ErrConflict = errors.New("cascade: node changed concurrently")
)

// Hierarchy names one of the two trees dates propagate through.
type Hierarchy string

const (
	Projects Hierarchy = "project"
	Products Hierarchy = "product"
)

// container returns the hierarchy a root node of h may be contained in.
func (h Hierarchy) container() (Hierarchy, bool) {
	if h == Products {
		return Projects, true
	}
	return "", false
}

// Node is one schedulable node as loaded for a cascade step: its own dates and
// parent linkage plus the dates of every direct child, same-type and
// cross-type alike.
type Node struct {
	ID       string
	Dates    schedule.Dates
	Parent   schedule.ParentRef
	Children []schedule.Dates
	Version  int64
}

// Store is the persistence a coordinator needs for its hierarchy.
type Store interface {
	// LoadNode returns the node with its children hydrated. A missing node
	// yields an error wrapping ErrNotFound.
	LoadNode(ctx context.Context, id string) (Node, error)
	// SaveDates writes derived dates if the stored version still equals
	// version. A lost race yields an error wrapping ErrConflict.
	SaveDates(ctx context.Context, id string, version int64, dates schedule.Dates) error
}
