// Package selector provides shooting-point selectors.
package selector

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ensemble"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// ErrTooShort is returned when a trajectory has no selectable frame.
var ErrTooShort = errors.New("trajectory has no selectable frame")

var (
	_ ports.ShootingPointSelector = (*Uniform)(nil)
	_ ports.ShootingPointSelector = (*GaussianBias)(nil)
)

// weighted is the shared sampling logic: frames 1..n-2 are selectable and
// f gives their unnormalized weight.
type weighted struct {
	f func(domain.Snapshot) float64
}

func (w weighted) sum(traj domain.Trajectory) float64 {
	total := 0.0
	for i := 1; i < traj.Len()-1; i++ {
		total += w.f(traj.At(i))
	}
	return total
}

func (w weighted) pointAt(traj domain.Trajectory, index int) (domain.ShootingPoint, error) {
	if traj.Len() < 3 {
		return domain.ShootingPoint{}, fmt.Errorf("%d frames: %w", traj.Len(), ErrTooShort)
	}
	if index < 0 || index >= traj.Len() {
		return domain.ShootingPoint{}, fmt.Errorf("frame %d out of range [0, %d)", index, traj.Len())
	}
	s := traj.At(index)
	return domain.ShootingPoint{
		Index:    index,
		Snapshot: s,
		F:        w.f(s),
		SumBias:  w.sum(traj),
	}, nil
}

func (w weighted) pick(rng *rand.Rand, traj domain.Trajectory) (domain.ShootingPoint, error) {
	if traj.Len() < 3 {
		return domain.ShootingPoint{}, fmt.Errorf("%d frames: %w", traj.Len(), ErrTooShort)
	}
	total := w.sum(traj)
	if total <= 0 {
		return domain.ShootingPoint{}, fmt.Errorf("zero total weight: %w", ErrTooShort)
	}
	r := rng.Float64() * total
	acc := 0.0
	last := traj.Len() - 2
	for i := 1; i <= last; i++ {
		acc += w.f(traj.At(i))
		if r < acc {
			return w.pointAt(traj, i)
		}
	}
	return w.pointAt(traj, last)
}

// Uniform picks an interior frame with equal probability.
type Uniform struct {
	weighted
}

// NewUniform creates a uniform selector.
func NewUniform() *Uniform {
	return &Uniform{weighted{f: func(domain.Snapshot) float64 { return 1 }}}
}

// Pick selects an interior frame.
func (u *Uniform) Pick(rng *rand.Rand, traj domain.Trajectory) (domain.ShootingPoint, error) {
	return u.pick(rng, traj)
}

// PointAt returns the point at index with SumBias equal to the number of
// interior frames.
func (u *Uniform) PointAt(traj domain.Trajectory, index int) (domain.ShootingPoint, error) {
	return u.pointAt(traj, index)
}

// GaussianBias favors frames whose collective variable is close to center.
// The weight of a frame is exp(-(cv-center)^2 / (2 width^2)).
type GaussianBias struct {
	weighted
	center float64
	width  float64
}

// NewGaussianBias creates a Gaussian-biased selector.
func NewGaussianBias(cv ensemble.CollectiveVariable, center, width float64) (*GaussianBias, error) {
	if cv == nil {
		return nil, errors.New("gaussian selector: nil collective variable")
	}
	if width <= 0 {
		return nil, fmt.Errorf("gaussian selector: width must be positive, got %g", width)
	}
	g := &GaussianBias{center: center, width: width}
	g.f = func(s domain.Snapshot) float64 {
		d := cv(s) - center
		return math.Exp(-d * d / (2 * width * width))
	}
	return g, nil
}

// Pick selects an interior frame with probability proportional to its weight.
func (g *GaussianBias) Pick(rng *rand.Rand, traj domain.Trajectory) (domain.ShootingPoint, error) {
	return g.pick(rng, traj)
}

// PointAt returns the point at index with the trajectory's total weight.
func (g *GaussianBias) PointAt(traj domain.Trajectory, index int) (domain.ShootingPoint, error) {
	return g.pointAt(traj, index)
}
