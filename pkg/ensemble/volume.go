package ensemble

import (
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// CollectiveVariable maps a snapshot to a scalar order parameter.
type CollectiveVariable func(domain.Snapshot) float64

// CVRange is the volume lo <= cv(s) < hi.
type CVRange struct {
	name   string
	cv     CollectiveVariable
	lo, hi float64
}

// NewCVRange creates a volume. An empty name is derived from the bounds.
func NewCVRange(name string, cv CollectiveVariable, lo, hi float64) (*CVRange, error) {
	if cv == nil {
		return nil, fmt.Errorf("volume %q: nil collective variable", name)
	}
	if lo >= hi {
		return nil, fmt.Errorf("volume %q: empty range [%g, %g)", name, lo, hi)
	}
	if name == "" {
		name = fmt.Sprintf("[%g,%g)", lo, hi)
	}
	return &CVRange{name: name, cv: cv, lo: lo, hi: hi}, nil
}

func (v *CVRange) Name() string { return v.name }

// Contains reports whether s lies in the range.
func (v *CVRange) Contains(s domain.Snapshot) bool {
	x := v.cv(s)
	return x >= v.lo && x < v.hi
}

// Bounds returns the range limits.
func (v *CVRange) Bounds() (lo, hi float64) { return v.lo, v.hi }

// Union is the volume covered by any of its members.
type Union []domain.Volume

func (u Union) Name() string {
	name := ""
	for i, v := range u {
		if i > 0 {
			name += "|"
		}
		name += domain.NameOf(v)
	}
	return name
}

// Contains reports whether any member contains s.
func (u Union) Contains(s domain.Snapshot) bool {
	for _, v := range u {
		if v.Contains(s) {
			return true
		}
	}
	return false
}
