package ports

import "github.com/aretw0/pathsampling/pkg/domain"

// GlobalState is the read-only view of the active samples that movers
// select from. *domain.SampleSet implements it.
type GlobalState interface {
	// ReplicaList returns the replica ids in ascending order.
	ReplicaList() []int

	// AllFromReplica returns the active samples of a replica.
	AllFromReplica(replica int) []domain.Sample

	// AllFromEnsemble returns the active samples in an ensemble.
	AllFromEnsemble(ens domain.Ensemble) []domain.Sample
}

var _ GlobalState = (*domain.SampleSet)(nil)
