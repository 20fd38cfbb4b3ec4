package domain

// SampleSetDiff describes how the active samples changed between two
// snapshots of the global state.
type SampleSetDiff struct {
	// Added lists replicas present only in the new set.
	Added []int `json:"added,omitempty"`

	// Removed lists replicas present only in the old set.
	Removed []int `json:"removed,omitempty"`

	// Moved lists replicas whose trajectory or ensemble changed.
	Moved []int `json:"moved,omitempty"`
}

// Diff calculates the difference between oldSet and newSet.
// If oldSet is nil, every replica of newSet is reported as added.
// Returns nil when nothing changed.
func Diff(oldSet, newSet *SampleSet) *SampleSetDiff {
	if newSet == nil {
		return nil
	}
	if oldSet == nil {
		oldSet = NewSampleSet()
	}

	diff := &SampleSetDiff{}

	for _, id := range newSet.ReplicaList() {
		newSample, _ := newSet.Sample(id)
		oldSample, exists := oldSet.Sample(id)
		if !exists {
			diff.Added = append(diff.Added, id)
			continue
		}
		if oldSample.Ensemble != newSample.Ensemble || !oldSample.Trajectory.Equal(newSample.Trajectory) {
			diff.Moved = append(diff.Moved, id)
		}
	}

	for _, id := range oldSet.ReplicaList() {
		if _, exists := newSet.Sample(id); !exists {
			diff.Removed = append(diff.Removed, id)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any change.
func (d *SampleSetDiff) IsEmpty() bool {
	return d == nil || (len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0)
}
