package ensemble

import (
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// Interface is a transition interface ensemble. A member path starts in
// stateA, ends in stateA or stateB, visits neither state in between, and
// leaves the interface volume at least once.
type Interface struct {
	name   string
	stateA domain.Volume
	stateB domain.Volume
	iface  domain.Volume
}

// NewInterface creates an interface ensemble. iface must contain stateA.
func NewInterface(name string, stateA, stateB, iface domain.Volume) *Interface {
	if name == "" {
		name = fmt.Sprintf("TIS(%s->%s,%s)", domain.NameOf(stateA), domain.NameOf(stateB), domain.NameOf(iface))
	}
	return &Interface{name: name, stateA: stateA, stateB: stateB, iface: iface}
}

func (e *Interface) Name() string { return e.name }

func (e *Interface) inState(s domain.Snapshot) bool {
	return e.stateA.Contains(s) || e.stateB.Contains(s)
}

// Contains checks the full path definition.
func (e *Interface) Contains(traj domain.Trajectory) bool {
	n := traj.Len()
	if n < 3 {
		return false
	}
	if !e.stateA.Contains(traj.First()) || !e.inState(traj.Last()) {
		return false
	}
	crossed := false
	for i := 1; i < n-1; i++ {
		s := traj.At(i)
		if e.inState(s) {
			return false
		}
		if !e.iface.Contains(s) {
			crossed = true
		}
	}
	return crossed || !e.iface.Contains(traj.Last())
}

// CanAppend is true until the path has re-entered a state.
func (e *Interface) CanAppend(traj domain.Trajectory) bool {
	if traj.Len() < 2 {
		return true
	}
	return !e.inState(traj.Last())
}

// CanPrepend is true until the path starts in a state.
func (e *Interface) CanPrepend(traj domain.Trajectory) bool {
	if traj.Len() < 2 {
		return true
	}
	return !e.inState(traj.First())
}

// Split returns the sub-paths that leave stateA and satisfy the ensemble.
func (e *Interface) Split(traj domain.Trajectory) []domain.Trajectory {
	var out []domain.Trajectory
	n := traj.Len()
	for i := 0; i < n-1; i++ {
		if !e.stateA.Contains(traj.At(i)) || e.inState(traj.At(i+1)) {
			continue
		}
		for j := i + 1; j < n; j++ {
			if e.inState(traj.At(j)) {
				if seg := traj.Slice(i, j+1); e.Contains(seg) {
					out = append(out, seg)
				}
				i = j - 1
				break
			}
		}
	}
	return out
}
