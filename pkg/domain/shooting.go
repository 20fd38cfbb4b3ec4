package domain

// Direction of a shooting move.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// ShootingPoint is a frame chosen by a shooting-point selector.
type ShootingPoint struct {
	// Index of the frame in the trajectory it was picked from.
	Index int

	Snapshot Snapshot

	// F is the selector's unnormalized weight of this frame.
	F float64

	// SumBias is the selector's normalization over the whole trajectory.
	// The ratio of SumBias before and after a shot corrects for the
	// asymmetric proposal.
	SumBias float64
}
