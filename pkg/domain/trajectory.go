package domain

// Snapshot is a single frame of a trajectory.
// Implementations are immutable. Reversed returns the time-reversed copy of
// the frame (velocities flipped); applying it twice must give back an equal
// snapshot.
type Snapshot interface {
	Reversed() Snapshot
}

// Equaler can be implemented by snapshots that are not comparable with ==.
type Equaler interface {
	Equal(other Snapshot) bool
}

// Trajectory is an ordered, immutable sequence of snapshots.
// The zero value is the empty trajectory.
type Trajectory struct {
	frames []Snapshot
}

// NewTrajectory builds a trajectory from the given frames.
func NewTrajectory(frames ...Snapshot) Trajectory {
	if len(frames) == 0 {
		return Trajectory{}
	}
	owned := make([]Snapshot, len(frames))
	copy(owned, frames)
	return Trajectory{frames: owned}
}

// Len returns the number of frames.
func (t Trajectory) Len() int {
	return len(t.frames)
}

// At returns the frame at index i.
func (t Trajectory) At(i int) Snapshot {
	return t.frames[i]
}

// First returns the first frame, or nil for an empty trajectory.
func (t Trajectory) First() Snapshot {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[0]
}

// Last returns the last frame, or nil for an empty trajectory.
func (t Trajectory) Last() Snapshot {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

// Frames returns a copy of the frames.
func (t Trajectory) Frames() []Snapshot {
	out := make([]Snapshot, len(t.frames))
	copy(out, t.frames)
	return out
}

// Slice returns frames [i, j). Bounds are clamped to the trajectory, so
// Slice(0, 0) and Slice(n, n) are valid empty trajectories.
func (t Trajectory) Slice(i, j int) Trajectory {
	n := len(t.frames)
	if i < 0 {
		i = 0
	}
	if j > n {
		j = n
	}
	if i >= j {
		return Trajectory{}
	}
	// Frames are never written through, so sharing the backing array is safe.
	return Trajectory{frames: t.frames[i:j:j]}
}

// Concat returns t followed by other.
func (t Trajectory) Concat(other Trajectory) Trajectory {
	if len(other.frames) == 0 {
		return t
	}
	if len(t.frames) == 0 {
		return other
	}
	out := make([]Snapshot, 0, len(t.frames)+len(other.frames))
	out = append(out, t.frames...)
	out = append(out, other.frames...)
	return Trajectory{frames: out}
}

// Reversed returns the time-reversed trajectory: frame order is inverted
// and every frame is reversed.
func (t Trajectory) Reversed() Trajectory {
	if len(t.frames) == 0 {
		return Trajectory{}
	}
	out := make([]Snapshot, len(t.frames))
	for i, s := range t.frames {
		out[len(t.frames)-1-i] = s.Reversed()
	}
	return Trajectory{frames: out}
}

// Equal reports whether both trajectories hold equal frames in the same order.
func (t Trajectory) Equal(other Trajectory) bool {
	if len(t.frames) != len(other.frames) {
		return false
	}
	for i := range t.frames {
		if !SnapshotsEqual(t.frames[i], other.frames[i]) {
			return false
		}
	}
	return true
}

// SnapshotsEqual compares two snapshots, preferring an Equal method.
func SnapshotsEqual(a, b Snapshot) bool {
	if e, ok := a.(Equaler); ok {
		return e.Equal(b)
	}
	return a == b
}

// RunningPredicate decides whether propagation may continue given the
// partial trajectory generated so far. It returns false to stop.
type RunningPredicate func(partial Trajectory) bool
