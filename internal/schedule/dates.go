// Package schedule holds the date model behind derived scheduling attributes:
// the three date dimensions, recomputation modes, parent linkage, the diff
// tracker that decides how far a change must travel, and the aggregate
// functions that fold children into a parent.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrDateOrder is returned when fixed dates violate available <= start <= end.
var ErrDateOrder = errors.New("schedule: dates out of order")

// Dimension is one of the three aggregated date attributes.
type Dimension uint8

const (
	Available Dimension = iota
	Start
	End
)

// Dimensions lists every aggregated dimension in canonical order.
var Dimensions = []Dimension{Available, Start, End}

func (d Dimension) String() string {
	switch d {
	case Available:
		return "available"
	case Start:
		return "start"
	case End:
		return "end"
	}
	return fmt.Sprintf("dimension(%d)", uint8(d))
}

// Dates carries the aggregated attributes of a schedulable node. A nil field
// means the date is unset.
type Dates struct {
	Available *time.Time
	Start     *time.Time
	End       *time.Time
}

// Get returns the value of one dimension.
func (d Dates) Get(dim Dimension) *time.Time {
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

// With returns a copy of d with dim set to v.
func (d Dates) With(dim Dimension, v *time.Time) Dates {
	switch dim {
	case Available:
		d.Available = v
	case Start:
		d.Start = v
	case End:
		d.End = v
	}
	return d
}

// Equal compares all three dimensions by instant.
func (d Dates) Equal(o Dates) bool {
	for _, dim := range Dimensions {
		if !SameTime(d.Get(dim), o.Get(dim)) {
			return false
		}
	}
	return true
}

// Supplied returns the dimensions that carry a value.
func (d Dates) Supplied() []Dimension {
	var dims []Dimension
	for _, dim := range Dimensions {
		if d.Get(dim) != nil {
			dims = append(dims, dim)
		}
	}
	return dims
}

// SameTime reports whether a and b hold the same instant. Two nils are equal;
// nil and non-nil are not.
func SameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// ValidateFixed checks user-supplied dates for chronological order. Unset
// dimensions are skipped.
func ValidateFixed(d Dates) error {
	set := make([]Dimension, 0, len(Dimensions))
	for _, dim := range Dimensions {
		if d.Get(dim) != nil {
			set = append(set, dim)
		}
	}
	for i := 1; i < len(set); i++ {
		prev, cur := set[i-1], set[i]
		if d.Get(cur).Before(*d.Get(prev)) {
			return fmt.Errorf("%w: %s %s is before %s %s", ErrDateOrder,
				cur, d.Get(cur).Format(time.RFC3339), prev, d.Get(prev).Format(time.RFC3339))
		}
	}
	return nil
}

// ParseDate reads a calendar date (2006-01-02) or an RFC 3339 timestamp. An
// empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("schedule: invalid date %q, want YYYY-MM-DD or RFC 3339", s)
}
