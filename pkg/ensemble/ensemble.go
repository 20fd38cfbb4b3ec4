package ensemble

import (
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// AllIn holds non-empty trajectories whose every frame lies in a volume.
type AllIn struct {
	vol domain.Volume
}

// NewAllIn creates an all-in ensemble.
func NewAllIn(vol domain.Volume) *AllIn { return &AllIn{vol: vol} }

func (e *AllIn) Name() string { return "AllIn(" + domain.NameOf(e.vol) + ")" }

func (e *AllIn) Contains(traj domain.Trajectory) bool {
	return traj.Len() > 0 && allFrames(traj, e.vol.Contains)
}

func (e *AllIn) CanAppend(traj domain.Trajectory) bool {
	return traj.Len() == 0 || e.vol.Contains(traj.Last())
}

func (e *AllIn) CanPrepend(traj domain.Trajectory) bool {
	return traj.Len() == 0 || e.vol.Contains(traj.First())
}

// Split returns the maximal runs inside the volume.
func (e *AllIn) Split(traj domain.Trajectory) []domain.Trajectory {
	return runs(traj, e.vol.Contains)
}

// AllOut holds non-empty trajectories that never enter a volume.
type AllOut struct {
	vol domain.Volume
}

// NewAllOut creates an all-out ensemble.
func NewAllOut(vol domain.Volume) *AllOut { return &AllOut{vol: vol} }

func (e *AllOut) Name() string { return "AllOut(" + domain.NameOf(e.vol) + ")" }

func (e *AllOut) outside(s domain.Snapshot) bool { return !e.vol.Contains(s) }

func (e *AllOut) Contains(traj domain.Trajectory) bool {
	return traj.Len() > 0 && allFrames(traj, e.outside)
}

func (e *AllOut) CanAppend(traj domain.Trajectory) bool {
	return traj.Len() == 0 || e.outside(traj.Last())
}

func (e *AllOut) CanPrepend(traj domain.Trajectory) bool {
	return traj.Len() == 0 || e.outside(traj.First())
}

// Split returns the maximal runs outside the volume.
func (e *AllOut) Split(traj domain.Trajectory) []domain.Trajectory {
	return runs(traj, e.outside)
}

// Length holds trajectories of exactly n frames.
type Length struct {
	n int
}

// NewLength creates a fixed-length ensemble.
func NewLength(n int) *Length { return &Length{n: n} }

func (e *Length) Name() string { return fmt.Sprintf("Length(%d)", e.n) }

func (e *Length) Contains(traj domain.Trajectory) bool   { return traj.Len() == e.n }
func (e *Length) CanAppend(traj domain.Trajectory) bool  { return traj.Len() < e.n }
func (e *Length) CanPrepend(traj domain.Trajectory) bool { return traj.Len() < e.n }

// Split returns consecutive, non-overlapping chunks of n frames.
func (e *Length) Split(traj domain.Trajectory) []domain.Trajectory {
	if e.n <= 0 {
		return nil
	}
	var out []domain.Trajectory
	for i := 0; i+e.n <= traj.Len(); i += e.n {
		out = append(out, traj.Slice(i, i+e.n))
	}
	return out
}

func allFrames(traj domain.Trajectory, ok func(domain.Snapshot) bool) bool {
	for i := range traj.Len() {
		if !ok(traj.At(i)) {
			return false
		}
	}
	return true
}

func runs(traj domain.Trajectory, ok func(domain.Snapshot) bool) []domain.Trajectory {
	var out []domain.Trajectory
	start := -1
	for i := range traj.Len() {
		switch {
		case ok(traj.At(i)) && start < 0:
			start = i
		case !ok(traj.At(i)) && start >= 0:
			out = append(out, traj.Slice(start, i))
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, traj.Slice(start, traj.Len()))
	}
	return out
}
