package ports

import (
	"context"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// StepStore defines the interface for journaling step summaries of a run.
// It allows post-hoc acceptance statistics without keeping the run alive.
type StepStore interface {
	// Append records one step for a given run ID.
	Append(ctx context.Context, runID string, step domain.StepRecord) error

	// Steps returns the recorded steps in order.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Steps(ctx context.Context, runID string) ([]domain.StepRecord, error)

	// Runs lists known run IDs.
	Runs(ctx context.Context) ([]string, error)

	// Delete removes every step of a run.
	Delete(ctx context.Context, runID string) error
}
