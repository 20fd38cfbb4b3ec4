package movers

import (
	"context"
	"maps"
	"slices"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// ReplicaIDChange moves the selected trajectory to a new replica id and
// restores the replica's recorded old sample under the old id.
type ReplicaIDChange struct {
	base
	newReplicas map[int]int
	oldSamples  map[int]domain.Sample
}

// NewReplicaIDChange creates a replica-id change. newReplicas maps old ids
// to new ids; oldSamples holds the sample each old id reverts to. Without an
// explicit replica selection the mover picks among the mapped replicas.
func NewReplicaIDChange(newReplicas map[int]int, oldSamples map[int]domain.Sample, opts ...Option) (*ReplicaIDChange, error) {
	o := newOptions("replica_id_change", opts)
	if len(newReplicas) == 0 {
		return nil, domain.InvalidConfiguration(o.name, "no replica mappings")
	}
	for _, id := range slices.Sorted(maps.Keys(newReplicas)) {
		if _, ok := oldSamples[id]; !ok {
			return nil, domain.InvalidConfiguration(o.name, "no old sample for replica %d", id)
		}
	}
	if o.replicas.All() {
		o.replicas = Replicas(slices.Collect(maps.Keys(newReplicas))...)
	} else {
		for _, id := range o.replicas.ids {
			if _, ok := newReplicas[id]; !ok {
				return nil, domain.InvalidConfiguration(o.name, "no new replica for selected replica %d", id)
			}
		}
	}

	m := &ReplicaIDChange{
		base:        newBase(o),
		newReplicas: maps.Clone(newReplicas),
		oldSamples:  maps.Clone(oldSamples),
	}
	m.logInit("mappings", len(newReplicas))
	return m, nil
}

// Move returns [dead, fresh]. The change is always accepted.
func (m *ReplicaIDChange) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	sample, err := m.SelectSample(state, EnsembleSelection{})
	if err != nil {
		return nil, err
	}
	// Both lookups are guaranteed by the constructor.
	newRep := m.newReplicas[sample.Replica]
	old := m.oldSamples[sample.Replica]
	m.emit(ctx, domain.PhaseStart, sample.Replica, nil)

	details := domain.NewMoveDetails(m, sample.Trajectory)
	details.Trial = sample.Trajectory
	details.Result = sample.Trajectory
	details.Extra = domain.ReplicaChangeDetails{OldReplica: sample.Replica, NewReplica: newRep}
	m.emit(ctx, domain.PhaseProposed, sample.Replica, details)
	m.decide(ctx, sample.Replica, details, 1.0, domain.VerdictAccepted)

	dead := domain.Sample{
		Replica:    sample.Replica,
		Trajectory: old.Trajectory,
		Ensemble:   old.Ensemble,
		Details:    details,
	}
	fresh := domain.Sample{
		Replica:    newRep,
		Trajectory: sample.Trajectory,
		Ensemble:   sample.Ensemble,
		Details:    details,
	}
	m.emit(ctx, domain.PhaseReturned, sample.Replica, details)
	return []domain.Sample{dead, fresh}, nil
}
