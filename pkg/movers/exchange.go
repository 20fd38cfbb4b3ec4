package movers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// ReplicaExchange swaps the trajectories of two ensembles. Replicas follow
// their trajectories.
type ReplicaExchange struct {
	base
	pairs [][2]domain.Ensemble
	bias  ExchangeBias
}

// NewReplicaExchange creates an exchange move over the given ensemble
// pairs. pairs accepts any input MakeListOfPairs does.
func NewReplicaExchange(pairs any, opts ...Option) (*ReplicaExchange, error) {
	o := newOptions("exchange", opts)
	list, err := MakeListOfPairs[domain.Ensemble](pairs)
	if err != nil {
		return nil, withMover(o.name, err)
	}
	if len(list) == 0 {
		return nil, domain.InvalidConfiguration(o.name, "no ensemble pairs")
	}
	var involved []domain.Ensemble
	for i, p := range list {
		if p[0] == p[1] {
			return nil, domain.InvalidConfiguration(o.name, "pair %d exchanges %s with itself", i, domain.NameOf(p[0]))
		}
		involved = append(involved, p[0], p[1])
	}
	if !o.ensembles.IsSet() {
		o.ensembles = Ensembles(involved...)
	}

	m := &ReplicaExchange{
		base:  newBase(o),
		pairs: list,
		bias:  o.bias,
	}
	m.logInit("pairs", len(list), "biased", o.bias != nil)
	return m, nil
}

// Pairs returns the configured ensemble pairs.
func (m *ReplicaExchange) Pairs() [][2]domain.Ensemble {
	return append([][2]domain.Ensemble(nil), m.pairs...)
}

// Move picks an ensemble pair and exchanges the samples found in it.
func (m *ReplicaExchange) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	pair := m.pairs[m.rng.IntN(len(m.pairs))]
	s1, err := m.SelectSample(state, Ensembles(pair[0]))
	if err != nil {
		return nil, err
	}
	s2, err := m.SelectSample(state, Ensembles(pair[1]))
	if err != nil {
		return nil, err
	}
	return m.exchange(ctx, s1, s2), nil
}

// Exchange proposes swapping t1 (in e1) with t2 (in e2). The returned
// samples are not bound to replicas. The first sample is always in e1 and
// the second in e2.
func (m *ReplicaExchange) Exchange(ctx context.Context, t1, t2 domain.Trajectory, e1, e2 domain.Ensemble) []domain.Sample {
	return m.exchange(ctx,
		domain.NewSample(domain.NoReplica, t1, e1),
		domain.NewSample(domain.NoReplica, t2, e2),
	)
}

func (m *ReplicaExchange) exchange(ctx context.Context, s1, s2 domain.Sample) []domain.Sample {
	t1, t2 := s1.Trajectory, s2.Trajectory
	e1, e2 := s1.Ensemble, s2.Ensemble
	m.emit(ctx, domain.PhaseStart, s1.Replica, nil)

	d1 := domain.NewMoveDetails(m, t1, t2)
	d1.Trial = t2
	d1.Extra = domain.ExchangeDetails{Ensembles: [2]domain.Ensemble{e1, e2}}
	d2 := d1.Clone()
	d2.Trial = t1
	m.emit(ctx, domain.PhaseProposed, s1.Replica, d1)

	p := m.acceptance(t1, t2, e1, e2)
	verdict := m.metropolis(p)

	accepted := verdict == domain.VerdictAccepted
	if accepted {
		d1.Result, d2.Result = t2, t1
	} else {
		d1.Result, d2.Result = t1, t2
	}
	d2.AcceptanceProbability, d2.Accepted = p, verdict
	m.decide(ctx, s1.Replica, d1, p, verdict)

	var out []domain.Sample
	if accepted {
		out = []domain.Sample{
			{Replica: s2.Replica, Trajectory: t2, Ensemble: e1, Details: d1},
			{Replica: s1.Replica, Trajectory: t1, Ensemble: e2, Details: d2},
		}
	} else {
		out = []domain.Sample{
			{Replica: s1.Replica, Trajectory: t1, Ensemble: e1, Details: d1},
			{Replica: s2.Replica, Trajectory: t2, Ensemble: e2, Details: d2},
		}
	}
	m.emit(ctx, domain.PhaseReturned, s1.Replica, d1)
	return out
}

// acceptance is the Metropolis swap probability: zero unless both
// trajectories satisfy their new ensembles, otherwise the bias ratio.
func (m *ReplicaExchange) acceptance(t1, t2 domain.Trajectory, e1, e2 domain.Ensemble) float64 {
	if !e1.Contains(t2) || !e2.Contains(t1) {
		return 0
	}
	if m.bias == nil {
		return 1
	}
	den := m.bias(e1, t1) * m.bias(e2, t2)
	if den <= 0 {
		return 1
	}
	return minOne(m.bias(e1, t2) * m.bias(e2, t1) / den)
}

// withMover attaches a mover name to configuration errors from helpers.
func withMover(name string, err error) error {
	var ic *domain.InvalidConfigurationError
	if errors.As(err, &ic) && ic.Mover == "" {
		return &domain.InvalidConfigurationError{Mover: name, Reason: ic.Reason}
	}
	return fmt.Errorf("%s: %w", name, err)
}
