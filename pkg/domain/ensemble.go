package domain

// Named is anything with a stable, human-readable name.
type Named interface {
	Name() string
}

// Volume is a region of configuration space.
type Volume interface {
	Named
	Contains(s Snapshot) bool
}

// Ensemble is a path-space constraint. All methods are pure.
type Ensemble interface {
	Named

	// Contains reports whether the whole trajectory satisfies the ensemble.
	Contains(traj Trajectory) bool

	// CanAppend reports whether frames may still be appended to traj while
	// keeping a chance of satisfying the ensemble.
	CanAppend(traj Trajectory) bool

	// CanPrepend is the backward-in-time counterpart of CanAppend.
	CanPrepend(traj Trajectory) bool

	// Split returns the sub-trajectories of traj that satisfy the ensemble.
	Split(traj Trajectory) []Trajectory
}

// AppendedTo returns a running predicate that tests prefix+partial against
// ens.CanAppend. Used when shooting forward from a point.
func AppendedTo(ens Ensemble, prefix Trajectory) RunningPredicate {
	return func(partial Trajectory) bool {
		return ens.CanAppend(prefix.Concat(partial))
	}
}

// PrependedTo returns a running predicate for backward propagation. The
// engine generates the partial trajectory in reversed time, so it is
// reversed before being put in front of suffix.
func PrependedTo(ens Ensemble, suffix Trajectory) RunningPredicate {
	return func(partial Trajectory) bool {
		return ens.CanPrepend(partial.Reversed().Concat(suffix))
	}
}

// NameOf returns n.Name(), or "<nil>".
func NameOf(n Named) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
