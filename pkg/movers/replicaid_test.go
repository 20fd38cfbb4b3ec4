package movers_test

import (
	"context"
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplicaIDChange(t *testing.T) {
	current, previous := anyEnsemble("current"), anyEnsemble("previous")
	traj, oldTraj := path(0, 1, 2), path(0, 1)
	state := domain.NewSampleSet(domain.NewSample(0, traj, current))

	m, err := movers.NewReplicaIDChange(
		map[int]int{0: 10},
		map[int]domain.Sample{0: domain.NewSample(0, oldTraj, previous)},
	)
	require.NoError(t, err)
	assert.Equal(t, movers.Replicas(0), m.Replicas())

	out, err := m.Move(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, out, 2)

	dead, fresh := out[0], out[1]
	assert.Equal(t, 0, dead.Replica)
	assert.Same(t, previous, dead.Ensemble)
	assert.True(t, dead.Trajectory.Equal(oldTraj))

	assert.Equal(t, 10, fresh.Replica)
	assert.Same(t, current, fresh.Ensemble)
	assert.True(t, fresh.Trajectory.Equal(traj))

	for _, s := range out {
		assert.True(t, s.Accepted())
		assert.Equal(t, 1.0, s.Details.AcceptanceProbability)
	}
	change, ok := fresh.Details.Extra.(domain.ReplicaChangeDetails)
	require.True(t, ok)
	assert.Equal(t, domain.ReplicaChangeDetails{OldReplica: 0, NewReplica: 10}, change)
}

func TestNewReplicaIDChange_Invalid(t *testing.T) {
	ens := anyEnsemble("e")
	old := map[int]domain.Sample{0: domain.NewSample(0, path(0), ens)}

	tests := []struct {
		name        string
		newReplicas map[int]int
		oldSamples  map[int]domain.Sample
		opts        []movers.Option
		want        string
	}{
		{name: "no mappings", newReplicas: nil, oldSamples: old, want: "no replica mappings"},
		{name: "missing old sample", newReplicas: map[int]int{0: 5}, oldSamples: map[int]domain.Sample{}, want: "no old sample for replica 0"},
		{name: "nil old samples", newReplicas: map[int]int{2: 3}, oldSamples: nil, want: "no old sample for replica 2"},
		{
			name:        "selected replica without mapping",
			newReplicas: map[int]int{0: 5},
			oldSamples:  old,
			opts:        []movers.Option{movers.WithReplicas(movers.Replicas(0, 1))},
			want:        "no new replica for selected replica 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := movers.NewReplicaIDChange(tt.newReplicas, tt.oldSamples, tt.opts...)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReplicaIDChange_UnmappedReplicasNotSelected(t *testing.T) {
	ens := anyEnsemble("e")
	state := domain.NewSampleSet(domain.NewSample(2, path(0), ens))

	m, err := movers.NewReplicaIDChange(map[int]int{0: 1}, map[int]domain.Sample{0: domain.NewSample(0, path(1), ens)})
	require.NoError(t, err)

	_, err = m.Move(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}
