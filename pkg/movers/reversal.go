package movers

import (
	"context"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// PathReversalMover proposes the time-reversed trajectory in the same
// ensemble. Acceptance is deterministic.
type PathReversalMover struct {
	base
}

// NewPathReversalMover creates a reversal move.
func NewPathReversalMover(opts ...Option) *PathReversalMover {
	m := &PathReversalMover{base: newBase(newOptions("reversal", opts))}
	m.logInit()
	return m
}

// Move reverses a selected sample.
func (m *PathReversalMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	sample, err := m.SelectSample(state, EnsembleSelection{})
	if err != nil {
		return nil, err
	}
	m.emit(ctx, domain.PhaseStart, sample.Replica, nil)

	details := domain.NewMoveDetails(m, sample.Trajectory)
	details.Trial = sample.Trajectory.Reversed()
	m.emit(ctx, domain.PhaseProposed, sample.Replica, details)

	p, verdict := 0.0, domain.VerdictRejected
	details.Result = sample.Trajectory
	if sample.Ensemble.Contains(details.Trial) {
		p, verdict = 1.0, domain.VerdictAccepted
		details.Result = details.Trial
	}
	m.decide(ctx, sample.Replica, details, p, verdict)

	out := domain.Sample{
		Replica:    sample.Replica,
		Trajectory: details.Result,
		Ensemble:   sample.Ensemble,
		Details:    details,
	}
	m.emit(ctx, domain.PhaseReturned, sample.Replica, details)
	return []domain.Sample{out}, nil
}
