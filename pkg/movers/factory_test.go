package movers_test

import (
	"context"
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneWayShootingSet(t *testing.T) {
	engine := &stepEngine{step: 0.5, max: 100}
	i0, i1, i2 := transitionEnsemble("i0"), transitionEnsemble("i1"), transitionEnsemble("i2")
	interfaces := []domain.Ensemble{i0, i1, i2}

	t.Run("broadcast selector", func(t *testing.T) {
		set, err := movers.OneWayShootingSet(engine, []ports.ShootingPointSelector{fixedSelector{index: 1}}, interfaces)
		require.NoError(t, err)
		require.Len(t, set, 3)

		for i, m := range set {
			mixed, ok := m.(*movers.MixedMover)
			require.True(t, ok)
			assert.Equal(t, []domain.Ensemble{interfaces[i]}, mixed.Ensembles().List())

			subs := mixed.Submovers()
			require.Len(t, subs, 2)
			fwd, ok := subs[0].(*movers.ShootMover)
			require.True(t, ok)
			bwd, ok := subs[1].(*movers.ShootMover)
			require.True(t, ok)
			assert.Equal(t, domain.Forward, fwd.Direction())
			assert.Equal(t, domain.Backward, bwd.Direction())
			assert.Equal(t, []domain.Ensemble{interfaces[i]}, fwd.Ensembles().List())
			assert.Equal(t, "forward_shoot["+interfaces[i].Name()+"]", fwd.Name())
		}
	})

	t.Run("one selector per interface", func(t *testing.T) {
		sels := []ports.ShootingPointSelector{fixedSelector{index: 1}, fixedSelector{index: 2}, fixedSelector{index: 1}}
		set, err := movers.OneWayShootingSet(engine, sels, interfaces)
		require.NoError(t, err)
		assert.Len(t, set, 3)
	})

	t.Run("selector count mismatch", func(t *testing.T) {
		sels := []ports.ShootingPointSelector{fixedSelector{}, fixedSelector{}}
		_, err := movers.OneWayShootingSet(engine, sels, interfaces)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("shoots only in its interface", func(t *testing.T) {
		set, err := movers.OneWayShootingSet(engine, []ports.ShootingPointSelector{fixedSelector{index: 1}}, interfaces, movers.WithRand(seeded(6)))
		require.NoError(t, err)
		state := domain.NewSampleSet(
			domain.NewSample(0, path(0, 1, 2, 3), i0),
			domain.NewSample(1, path(0, 1, 2, 3), i1),
		)
		for range 20 {
			out, err := set[1].Move(context.Background(), state)
			require.NoError(t, err)
			assert.Equal(t, 1, out[0].Replica)
			assert.Same(t, i1, out[0].Ensemble)
		}
	})
}

func TestIncompleteFactories(t *testing.T) {
	_, err := movers.TwoWayShootingSet()
	assert.ErrorIs(t, err, domain.ErrIncompleteMove)
	_, err = movers.NearestNeighborRepExSet()
	assert.ErrorIs(t, err, domain.ErrIncompleteMove)
}

func TestMinusMove(t *testing.T) {
	state := domain.NewSampleSet(domain.NewSample(0, path(0), anyEnsemble("e")))
	_, err := movers.NewMinusMove().Move(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrIncompleteMove)
}
