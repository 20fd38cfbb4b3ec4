package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStepStoreContract runs a suite of tests to verify that a StepStore
// implementation adheres to the defined interface contract.
func RunStepStoreContract(t *testing.T, store StepStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	record := func(step int, accepted bool) domain.StepRecord {
		return domain.StepRecord{
			Step:  step,
			Mover: "mixed",
			Samples: []domain.SampleRecord{
				{Replica: 0, Ensemble: "tis0", Mover: "forward_shoot", Accepted: accepted, Probability: 0.5, Length: 12},
			},
			Changed: &domain.SampleSetDiff{Moved: []int{0}},
		}
	}

	t.Run("Append and Steps", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, runID, record(0, true)))
		require.NoError(t, store.Append(ctx, runID, record(1, false)))

		steps, err := store.Steps(ctx, runID)
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, 0, steps[0].Step)
		assert.Equal(t, 1, steps[1].Step)
		assert.True(t, steps[0].Accepted())
		assert.False(t, steps[1].Accepted())
		assert.Equal(t, "tis0", steps[0].Samples[0].Ensemble)
		assert.Equal(t, []int{0}, steps[0].Changed.Moved)
	})

	t.Run("Steps Non-Existent", func(t *testing.T) {
		_, err := store.Steps(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Runs", func(t *testing.T) {
		other := runID + "-other"
		require.NoError(t, store.Append(ctx, other, record(0, true)))
		defer func() {
			_ = store.Delete(ctx, other)
		}()

		runs, err := store.Runs(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, runID)
		assert.Contains(t, runs, other)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Steps(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Steps after Delete should return ErrRunNotFound")
	})
}
