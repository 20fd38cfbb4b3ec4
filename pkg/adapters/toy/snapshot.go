package toy

import (
	"github.com/aretw0/pathsampling/pkg/domain"
)

// Snapshot is a 1D phase-space point.
type Snapshot struct {
	X float64 `json:"x"`
	V float64 `json:"v"`
}

// Reversed flips the velocity.
func (s Snapshot) Reversed() domain.Snapshot {
	return Snapshot{X: s.X, V: -s.V}
}

// Position is the collective variable of toy snapshots.
func Position(s domain.Snapshot) float64 {
	switch v := s.(type) {
	case Snapshot:
		return v.X
	case *Snapshot:
		return v.X
	}
	return 0
}

// Path builds a trajectory from positions. Velocities are finite
// differences so the path runs forward in time.
func Path(xs ...float64) domain.Trajectory {
	frames := make([]domain.Snapshot, len(xs))
	for i, x := range xs {
		v := 0.0
		switch {
		case i+1 < len(xs):
			v = xs[i+1] - x
		case i > 0:
			v = x - xs[i-1]
		}
		frames[i] = Snapshot{X: x, V: v}
	}
	return domain.NewTrajectory(frames...)
}
