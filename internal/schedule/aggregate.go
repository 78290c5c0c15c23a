package schedule

import "time"

// Policy picks which extreme of the children's dates a dimension takes.
type Policy uint8

const (
	Earliest Policy = iota
	Latest
)

// DefaultPolicy is the combinator per dimension. Available and start take the
// earliest child value, end the latest.
var DefaultPolicy = map[Dimension]Policy{
	Available: Earliest,
	Start:     Earliest,
	End:       Latest,
}

// Aggregate folds dim across children under DefaultPolicy. Children with no
// value for dim are ignored; nil is returned when none has one.
func Aggregate(dim Dimension, children []Dates) *time.Time {
	policy := DefaultPolicy[dim]
	var out *time.Time
	for _, c := range children {
		v := c.Get(dim)
		if v == nil {
			continue
		}
		if out == nil ||
			(policy == Earliest && v.Before(*out)) ||
			(policy == Latest && v.After(*out)) {
			cp := *v
			out = &cp
		}
	}
	return out
}

// AggregateAvailable returns the earliest available date among children.
func AggregateAvailable(children []Dates) *time.Time {
	return Aggregate(Available, children)
}

// AggregateStart returns the earliest start date among children.
func AggregateStart(children []Dates) *time.Time {
	return Aggregate(Start, children)
}

// AggregateEnd returns the latest end date among children.
func AggregateEnd(children []Dates) *time.Time {
	return Aggregate(End, children)
}

// Recompute returns current with every dimension selected by mode replaced by
// the aggregate over children. Unselected dimensions are left as they are.
func Recompute(current Dates, children []Dates, mode Mode) Dates {
	next := current
	for _, dim := range mode.Dimensions() {
		next = next.With(dim, Aggregate(dim, children))
	}
	return next
}
