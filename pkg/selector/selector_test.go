package selector_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point float64

func (p point) Reversed() domain.Snapshot { return p }

func cv(s domain.Snapshot) float64 { return float64(s.(point)) }

func traj(xs ...float64) domain.Trajectory {
	frames := make([]domain.Snapshot, len(xs))
	for i, x := range xs {
		frames[i] = point(x)
	}
	return domain.NewTrajectory(frames...)
}

func TestUniform(t *testing.T) {
	sel := selector.NewUniform()
	rng := rand.New(rand.NewPCG(1, 2))
	path := traj(0, 1, 2, 3, 4)

	counts := map[int]int{}
	for range 3000 {
		p, err := sel.Pick(rng, path)
		require.NoError(t, err)
		assert.Equal(t, 3.0, p.SumBias)
		assert.Equal(t, 1.0, p.F)
		assert.Equal(t, path.At(p.Index), p.Snapshot)
		counts[p.Index]++
	}
	assert.Zero(t, counts[0], "endpoints are never picked")
	assert.Zero(t, counts[4])
	for i := 1; i <= 3; i++ {
		assert.InDelta(t, 1000, counts[i], 150)
	}

	p, err := sel.PointAt(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.SumBias)

	_, err = sel.Pick(rng, traj(0, 1))
	assert.ErrorIs(t, err, selector.ErrTooShort)
	_, err = sel.PointAt(path, 9)
	assert.Error(t, err)
}

func TestGaussianBias(t *testing.T) {
	sel, err := selector.NewGaussianBias(cv, 0, 0.5)
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(3, 4))
	path := traj(-2, -1, 0, 1, 2)

	p, err := sel.PointAt(path, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.F)
	want := 1 + 2*math.Exp(-2)
	assert.InDelta(t, want, p.SumBias, 1e-12)

	center := 0
	const trials = 4000
	for range trials {
		p, err := sel.Pick(rng, path)
		require.NoError(t, err)
		if p.Index == 2 {
			center++
		}
	}
	assert.InDelta(t, 1/want, float64(center)/trials, 0.03)

	_, err = selector.NewGaussianBias(cv, 0, 0)
	assert.Error(t, err)
	_, err = selector.NewGaussianBias(nil, 0, 1)
	assert.Error(t, err)
}
