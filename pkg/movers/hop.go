package movers

import (
	"context"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// EnsembleHopMover relabels a trajectory from one ensemble to another when
// the target ensemble contains it. Pairs are ordered [from, to].
type EnsembleHopMover struct {
	base
	pairs [][2]domain.Ensemble
}

// NewEnsembleHopMover creates a hop move. pairs accepts any input
// MakeListOfPairs does.
func NewEnsembleHopMover(pairs any, opts ...Option) (*EnsembleHopMover, error) {
	o := newOptions("hop", opts)
	list, err := MakeListOfPairs[domain.Ensemble](pairs)
	if err != nil {
		return nil, withMover(o.name, err)
	}
	if len(list) == 0 {
		return nil, domain.InvalidConfiguration(o.name, "no ensemble pairs")
	}
	from := make([]domain.Ensemble, len(list))
	for i, p := range list {
		from[i] = p[0]
	}
	if !o.ensembles.IsSet() {
		o.ensembles = Ensembles(from...)
	}

	m := &EnsembleHopMover{base: newBase(o), pairs: list}
	m.logInit("pairs", len(list))
	return m, nil
}

// Move picks a pair and hops a sample of its source ensemble.
func (m *EnsembleHopMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	pair := m.pairs[m.rng.IntN(len(m.pairs))]
	from, to := pair[0], pair[1]

	sample, err := m.SelectSample(state, Ensembles(from))
	if err != nil {
		return nil, err
	}
	m.emit(ctx, domain.PhaseStart, sample.Replica, nil)

	traj := sample.Trajectory
	details := domain.NewMoveDetails(m, traj)
	details.Trial = traj
	details.Result = traj
	hop := domain.HopDetails{
		InitialEnsemble: from,
		TrialEnsemble:   to,
		ResultEnsemble:  from,
	}
	details.Extra = hop
	m.emit(ctx, domain.PhaseProposed, sample.Replica, details)

	p, verdict := 0.0, domain.VerdictRejected
	if to.Contains(traj) {
		p, verdict = 1.0, domain.VerdictAccepted
		hop.ResultEnsemble = to
		details.Extra = hop
	}
	m.decide(ctx, sample.Replica, details, p, verdict)

	out := domain.Sample{
		Replica:    sample.Replica,
		Trajectory: traj,
		Ensemble:   hop.ResultEnsemble,
		Details:    details,
	}
	m.emit(ctx, domain.PhaseReturned, sample.Replica, details)
	return []domain.Sample{out}, nil
}
