package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

var _ ports.StepStore = (*Store)(nil)

// Store implements ports.StepStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.StepRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.StepRecord),
	}
}

// Append records a step for runID.
func (s *Store) Append(ctx context.Context, runID string, step domain.StepRecord) error {
	step = copyRecord(step)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = append(s.data[runID], step)
	return nil
}

// Steps returns copies of the recorded steps.
func (s *Store) Steps(ctx context.Context, runID string) ([]domain.StepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	steps, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}

	// Copy on read so callers can't mutate the journal through shared slices.
	out := make([]domain.StepRecord, len(steps))
	for i, step := range steps {
		out[i] = copyRecord(step)
	}
	return out, nil
}

// Delete removes a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// Runs returns the known run IDs, sorted.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	slices.Sort(runs)
	return runs, nil
}

func copyRecord(r domain.StepRecord) domain.StepRecord {
	r.Samples = slices.Clone(r.Samples)
	if r.Changed != nil {
		c := *r.Changed
		c.Added = slices.Clone(c.Added)
		c.Removed = slices.Clone(c.Removed)
		c.Moved = slices.Clone(c.Moved)
		r.Changed = &c
	}
	return r
}
