package domain

// NoReplica marks samples that are not bound to a replica slot.
const NoReplica = -1

// Sample states that a replica's current trajectory lives in an ensemble,
// as produced by the move recorded in Details. Samples are values and are
// never modified after construction; the next sample for the same replica
// supersedes them.
type Sample struct {
	Replica    int
	Trajectory Trajectory
	Ensemble   Ensemble
	Details    *MoveDetails
}

// NewSample builds a sample with no move details (e.g. an initial condition).
func NewSample(replica int, traj Trajectory, ens Ensemble) Sample {
	return Sample{
		Replica:    replica,
		Trajectory: traj,
		Ensemble:   ens,
	}
}

// WithDetails returns a copy of s carrying details.
func (s Sample) WithDetails(details *MoveDetails) Sample {
	s.Details = details
	return s
}

// Accepted reports whether the move that produced s accepted its trial.
func (s Sample) Accepted() bool {
	return s.Details.IsAccepted()
}
