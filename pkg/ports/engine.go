package ports

import (
	"context"
	"math/rand/v2"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// DynamicsEngine propagates trajectories. It is the only collaborator that
// may block for long; the running predicates are its authoritative stop
// condition.
type DynamicsEngine interface {
	// Generate propagates from start, appending frames while every running
	// predicate returns true for the partial trajectory. The returned
	// trajectory begins with start.
	Generate(ctx context.Context, start domain.Snapshot, running ...domain.RunningPredicate) (domain.Trajectory, error)

	// MaxLength is the longest trajectory the engine will build for a mover.
	MaxLength() int
}

// ShootingPointSelector picks shooting points and computes the bias
// correction for shooting moves.
type ShootingPointSelector interface {
	// Pick selects a frame of traj using rng.
	Pick(rng *rand.Rand, traj domain.Trajectory) (domain.ShootingPoint, error)

	// PointAt computes the shooting point for a given frame of traj without
	// drawing randomness.
	PointAt(traj domain.Trajectory, index int) (domain.ShootingPoint, error)
}
