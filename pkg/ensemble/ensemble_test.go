package ensemble_test

import (
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ensemble"
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

func values(t domain.Trajectory) []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = float64(t.At(i).(point))
	}
	return out
}

func mustRange(t *testing.T, name string, lo, hi float64) *ensemble.CVRange {
	t.Helper()
	v, err := ensemble.NewCVRange(name, cv, lo, hi)
	require.NoError(t, err)
	return v
}

func TestCVRange(t *testing.T) {
	v := mustRange(t, "A", -1, 0)
	assert.True(t, v.Contains(point(-1)))
	assert.True(t, v.Contains(point(-0.5)))
	assert.False(t, v.Contains(point(0)))
	assert.Equal(t, "A", v.Name())

	_, err := ensemble.NewCVRange("bad", cv, 1, 1)
	assert.Error(t, err)
	_, err = ensemble.NewCVRange("nil", nil, 0, 1)
	assert.Error(t, err)

	anon, err := ensemble.NewCVRange("", cv, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "[0,1)", anon.Name())

	u := ensemble.Union{v, mustRange(t, "B", 1, 2)}
	assert.True(t, u.Contains(point(1.5)))
	assert.False(t, u.Contains(point(0.5)))
	assert.Equal(t, "A|B", u.Name())
}

func TestAllInAllOut(t *testing.T) {
	v := mustRange(t, "A", 0, 1)
	in, out := ensemble.NewAllIn(v), ensemble.NewAllOut(v)

	assert.True(t, in.Contains(traj(0.1, 0.5)))
	assert.False(t, in.Contains(traj(0.1, 1.5)))
	assert.False(t, in.Contains(traj()))
	assert.True(t, in.CanAppend(traj(2, 0.5)))
	assert.False(t, in.CanAppend(traj(0.5, 2)))
	assert.True(t, in.CanPrepend(traj(0.5, 2)))

	assert.True(t, out.Contains(traj(2, 3)))
	assert.False(t, out.Contains(traj(2, 0.5)))
	assert.False(t, out.CanAppend(traj(2, 0.5)))

	split := in.Split(traj(0.1, 0.2, 2, 0.3, 3, 0.4))
	require.Len(t, split, 3)
	assert.Equal(t, []float64{0.1, 0.2}, values(split[0]))
	assert.Equal(t, []float64{0.3}, values(split[1]))
	assert.Equal(t, []float64{0.4}, values(split[2]))

	outSplit := out.Split(traj(0.1, 2, 3, 0.5))
	require.Len(t, outSplit, 1)
	assert.Equal(t, []float64{2, 3}, values(outSplit[0]))
}

func TestLength(t *testing.T) {
	e := ensemble.NewLength(3)
	assert.True(t, e.Contains(traj(1, 2, 3)))
	assert.False(t, e.Contains(traj(1, 2)))
	assert.True(t, e.CanAppend(traj(1, 2)))
	assert.False(t, e.CanAppend(traj(1, 2, 3)))
	assert.Len(t, e.Split(traj(1, 2, 3, 4, 5, 6, 7)), 2)
	assert.Equal(t, "Length(3)", e.Name())
}

func TestInterface(t *testing.T) {
	stateA := mustRange(t, "A", -10, -0.8)
	stateB := mustRange(t, "B", 0.8, 10)
	i0 := mustRange(t, "i0", -10, -0.6)
	e := ensemble.NewInterface("tis0", stateA, stateB, i0)

	tests := []struct {
		name string
		path []float64
		want bool
	}{
		{name: "crosses interface and returns", path: []float64{-0.9, -0.7, -0.5, -0.7, -0.9}, want: true},
		{name: "reaches B", path: []float64{-0.9, -0.5, 0, 0.5, 0.9}, want: true},
		{name: "never crosses interface", path: []float64{-0.9, -0.7, -0.65, -0.9}, want: false},
		{name: "does not start in A", path: []float64{-0.7, -0.5, -0.9}, want: false},
		{name: "does not end in a state", path: []float64{-0.9, -0.5, -0.4}, want: false},
		{name: "visits A in between", path: []float64{-0.9, -0.5, -0.9, -0.5, -0.9}, want: false},
		{name: "too short", path: []float64{-0.9, -0.9}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Contains(traj(tt.path...)))
		})
	}

	assert.True(t, e.CanAppend(traj(-0.9)))
	assert.True(t, e.CanAppend(traj(-0.9, -0.5)))
	assert.False(t, e.CanAppend(traj(-0.9, -0.5, 0.9)))
	assert.True(t, e.CanPrepend(traj(-0.5, -0.9)))
	assert.False(t, e.CanPrepend(traj(-0.9, -0.5, -0.9)))

	split := e.Split(traj(-0.9, -0.9, -0.5, -0.9, -0.7, -0.9, -0.5, 0.9))
	require.Len(t, split, 2)
	assert.Equal(t, []float64{-0.9, -0.5, -0.9}, values(split[0]))
	assert.Equal(t, []float64{-0.9, -0.5, 0.9}, values(split[1]))
}
