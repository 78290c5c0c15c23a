package schedule

import (
	"errors"
	"time"
)

// ErrNoChange is returned by Tracker.Mode when no populated dimension changed.
// Callers must guard with NeedChangeDates.
var ErrNoChange = errors.New("schedule: no date change to derive a mode from")

// Side selects the pre- or post-mutation snapshot.
type Side uint8

const (
	Old Side = iota
	New
)

// Pair holds the value of one dimension before and after a mutation.
type Pair struct {
	Old *time.Time
	New *time.Time
}

// Changed reports whether the two values differ by instant.
func (p Pair) Changed() bool {
	return !SameTime(p.Old, p.New)
}

// Diff is the per-dimension result of a tracked mutation. A nil pair means the
// dimension was never part of the mutation.
type Diff struct {
	Available *Pair
	Start     *Pair
	End       *Pair
}

// Pair returns the recorded pair for dim, or nil.
func (d Diff) Pair(dim Dimension) *Pair {
	switch dim {
	case Available:
		return d.Available
	case Start:
		return d.Start
	case End:
		return d.End
	}
	return nil
}

func (d *Diff) set(dim Dimension, p *Pair) {
	switch dim {
	case Available:
		d.Available = p
	case Start:
		d.Start = p
	case End:
		d.End = p
	}
}

// Snapshot is a node's observable state at one point of a mutation.
type Snapshot struct {
	Dates  Dates
	Parent ParentRef
}

// Tracker records a node's dates and parent linkage around a mutation and
// answers what, if anything, has to be propagated.
type Tracker struct {
	before      Snapshot
	diff        Diff
	afterParent ParentRef
	parentSet   bool
}

// NewTracker starts tracking from the pre-mutation snapshot.
func NewTracker(before Snapshot) *Tracker {
	return &Tracker{before: before, afterParent: before.Parent}
}

// UpdateDates records post-mutation values. Only dims are recorded; with no
// dims every dimension is. Dimensions left out stay unpopulated and take no
// part in change detection or the derived mode.
func (t *Tracker) UpdateDates(after Dates, dims ...Dimension) {
	if len(dims) == 0 {
		dims = Dimensions
	}
	for _, dim := range dims {
		t.diff.set(dim, &Pair{Old: t.before.Dates.Get(dim), New: after.Get(dim)})
	}
}

// UpdateParent records the post-mutation parent linkage.
func (t *Tracker) UpdateParent(after ParentRef) {
	t.afterParent = after
	t.parentSet = true
}

// Diff returns the recorded pairs.
func (t *Tracker) Diff() Diff {
	return t.diff
}

// ChangedDimensions lists the populated dimensions whose value changed.
func (t *Tracker) ChangedDimensions() []Dimension {
	var dims []Dimension
	for _, dim := range Dimensions {
		if p := t.diff.Pair(dim); p != nil && p.Changed() {
			dims = append(dims, dim)
		}
	}
	return dims
}

// NeedChangeDates reports whether at least one populated dimension changed.
func (t *Tracker) NeedChangeDates() bool {
	return len(t.ChangedDimensions()) > 0
}

// Mode returns the narrowest mode covering the changed dimensions.
func (t *Tracker) Mode() (Mode, error) {
	mode, ok := ModeFor(t.ChangedDimensions())
	if !ok {
		return 0, ErrNoChange
	}
	return mode, nil
}

// ParentChanged reports whether the parent linkage differs between snapshots.
func (t *Tracker) ParentChanged() bool {
	return t.parentSet && !t.before.Parent.Equal(t.afterParent)
}

// Parent returns the linkage on the requested side.
func (t *Tracker) Parent(side Side) ParentRef {
	if side == Old {
		return t.before.Parent
	}
	return t.afterParent
}

// ParentID returns the parent id on side when it is of the given kind, or "".
// A node moving between kinds (subproduct to root product inside a project)
// has different ids for each kind on each side.
func (t *Tracker) ParentID(side Side, kind ParentKind) string {
	p := t.Parent(side)
	if p.IsRoot() || p.Kind != kind {
		return ""
	}
	return p.ID
}
