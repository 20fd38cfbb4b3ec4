package domain

import "sort"

// SampleSet is the global state of a path sampling run: the active sample
// of every replica. Queries return samples ordered by replica id so that
// seeded runs replay exactly.
//
// Movers only read a SampleSet. ApplySamples is for the owner of the value
// (the driver, or a composite mover working on its private view).
type SampleSet struct {
	byReplica map[int]Sample
}

// NewSampleSet creates a set from samples; later samples replace earlier
// ones for the same replica.
func NewSampleSet(samples ...Sample) *SampleSet {
	s := &SampleSet{byReplica: make(map[int]Sample, len(samples))}
	s.ApplySamples(samples)
	return s
}

// ReplicaList returns the replica ids in ascending order.
func (s *SampleSet) ReplicaList() []int {
	ids := make([]int, 0, len(s.byReplica))
	for id := range s.byReplica {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AllFromReplica returns the active samples of replica (zero or one).
func (s *SampleSet) AllFromReplica(replica int) []Sample {
	sample, ok := s.byReplica[replica]
	if !ok {
		return nil
	}
	return []Sample{sample}
}

// AllFromEnsemble returns the active samples whose ensemble is ens.
func (s *SampleSet) AllFromEnsemble(ens Ensemble) []Sample {
	var out []Sample
	for _, id := range s.ReplicaList() {
		if sample := s.byReplica[id]; sample.Ensemble == ens {
			out = append(out, sample)
		}
	}
	return out
}

// Sample returns the active sample of replica.
func (s *SampleSet) Sample(replica int) (Sample, bool) {
	sample, ok := s.byReplica[replica]
	return sample, ok
}

// Samples returns every active sample, ordered by replica.
func (s *SampleSet) Samples() []Sample {
	out := make([]Sample, 0, len(s.byReplica))
	for _, id := range s.ReplicaList() {
		out = append(out, s.byReplica[id])
	}
	return out
}

// Len returns the number of replicas.
func (s *SampleSet) Len() int {
	return len(s.byReplica)
}

// ApplySamples merges samples in, replacing the active sample of each
// replica they name.
func (s *SampleSet) ApplySamples(samples []Sample) {
	if s.byReplica == nil {
		s.byReplica = make(map[int]Sample, len(samples))
	}
	for _, sample := range samples {
		s.byReplica[sample.Replica] = sample
	}
}

// Clone returns an independent copy of the set. Samples themselves are
// immutable and shared.
func (s *SampleSet) Clone() *SampleSet {
	c := &SampleSet{byReplica: make(map[int]Sample, len(s.byReplica))}
	for id, sample := range s.byReplica {
		c.byReplica[id] = sample
	}
	return c
}
