package schedule

import "fmt"

// Mode is the set of dimensions a cascade step must recompute.
type Mode uint8

const (
	ModeFull Mode = iota + 1
	ModeAvailable
	ModeStart
	ModeEnd
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeAvailable:
		return "available"
	case ModeStart:
		return "start"
	case ModeEnd:
		return "end"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode converts a mode name back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "full":
		return ModeFull, nil
	case "available":
		return ModeAvailable, nil
	case "start":
		return ModeStart, nil
	case "end":
		return ModeEnd, nil
	}
	return 0, fmt.Errorf("schedule: unknown mode %q", s)
}

// Dimensions returns the dimensions selected by m. An invalid mode selects none.
func (m Mode) Dimensions() []Dimension {
	switch m {
	case ModeFull:
		return Dimensions
	case ModeAvailable:
		return []Dimension{Available}
	case ModeStart:
		return []Dimension{Start}
	case ModeEnd:
		return []Dimension{End}
	}
	return nil
}

// Includes reports whether m recomputes dim.
func (m Mode) Includes(dim Dimension) bool {
	for _, d := range m.Dimensions() {
		if d == dim {
			return true
		}
	}
	return false
}

// ModeFor returns the narrowest mode covering dims. ok is false when dims is empty.
func ModeFor(dims []Dimension) (mode Mode, ok bool) {
	switch len(dims) {
	case 0:
		return 0, false
	case 1:
		return modeOf(dims[0]), true
	}
	first := dims[0]
	for _, d := range dims[1:] {
		if d != first {
			return ModeFull, true
		}
	}
	return modeOf(first), true
}

func modeOf(dim Dimension) Mode {
	switch dim {
	case Available:
		return ModeAvailable
	case Start:
		return ModeStart
	case End:
		return ModeEnd
	}
	return ModeFull
}
