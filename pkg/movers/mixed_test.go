package movers_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scripted(names ...string) ([]*scriptedMover, []movers.PathMover, *domain.SampleSet) {
	ens := anyEnsemble("e")
	state := domain.NewSampleSet(domain.NewSample(0, path(0, 1), ens))
	var concrete []*scriptedMover
	var all []movers.PathMover
	for i, n := range names {
		m := &scriptedMover{name: n, verdict: domain.VerdictAccepted, ens: ens, traj: path(0, float64(i+2))}
		concrete = append(concrete, m)
		all = append(all, m)
	}
	return concrete, all, state
}

func TestMixedMover_ZeroWeightsUnreachable(t *testing.T) {
	subs, all, state := scripted("a", "b", "c")
	m, err := movers.NewMixedMover(all, []float64{1, 0, 0}, movers.WithRand(seeded(21)))
	require.NoError(t, err)

	for range 1000 {
		out, err := m.Move(context.Background(), state)
		require.NoError(t, err)
		require.Len(t, out, 1)
		trace := out[0].Details.Trace
		require.Len(t, trace, 1)
		assert.Equal(t, domain.Choice{Mover: "mixed", Index: 0}, trace[0])
	}
	assert.Equal(t, 1000, subs[0].calls)
	assert.Zero(t, subs[1].calls)
	assert.Zero(t, subs[2].calls)
}

func TestMixedMover_Weights(t *testing.T) {
	subs, all, state := scripted("a", "b")
	m, err := movers.NewMixedMover(all, []float64{3, 1}, movers.WithRand(seeded(8)))
	require.NoError(t, err)

	const trials = 4000
	for range trials {
		_, err := m.Move(context.Background(), state)
		require.NoError(t, err)
	}
	assert.InDelta(t, 0.75, float64(subs[0].calls)/trials, 0.03)
	assert.Equal(t, trials, subs[0].calls+subs[1].calls)
}

func TestMixedMover_DefaultUniform(t *testing.T) {
	subs, all, state := scripted("a", "b")
	m, err := movers.NewMixedMover(all, nil, movers.WithRand(seeded(8)))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, m.Weights())
	assert.Len(t, m.Submovers(), 2)

	for range 2000 {
		_, err := m.Move(context.Background(), state)
		require.NoError(t, err)
	}
	assert.InDelta(t, 1000, subs[0].calls, 100)
}

func TestMixedMover_NestedTrace(t *testing.T) {
	_, all, state := scripted("a")
	m, err := movers.NewMixedMover(all, nil)
	require.NoError(t, err)
	outer, err := movers.NewMixedMover([]movers.PathMover{m}, nil, movers.WithName("outer"))
	require.NoError(t, err)

	out, err := outer.Move(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []domain.Choice{{Mover: "mixed", Index: 0}, {Mover: "outer", Index: 0}}, out[0].Details.Trace)
}

func TestNewMixedMover_Invalid(t *testing.T) {
	_, all, _ := scripted("a", "b")
	tests := []struct {
		name    string
		movers  []movers.PathMover
		weights []float64
	}{
		{name: "length mismatch", movers: all, weights: []float64{1}},
		{name: "negative weight", movers: all, weights: []float64{1, -1}},
		{name: "all zero", movers: all, weights: []float64{0, 0}},
		{name: "no movers", movers: nil, weights: nil},
		{name: "NaN weight", movers: all, weights: []float64{math.NaN(), 1}},
		{name: "infinite weight", movers: all, weights: []float64{math.Inf(1), 1}},
		{name: "negative infinite weight", movers: all, weights: []float64{1, math.Inf(-1)}},
		{name: "overflowing total", movers: all, weights: []float64{math.MaxFloat64, math.MaxFloat64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := movers.NewMixedMover(tt.movers, tt.weights)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		})
	}
}
