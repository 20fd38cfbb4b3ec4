package movers

import (
	"context"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// sequence runs sub-movers in order against a private view of the state,
// applying each result before the next sub-mover runs.
type sequence struct {
	base
	movers []PathMover
}

func newSequence(name string, movers []PathMover, opts []Option) (sequence, error) {
	o := newOptions(name, opts)
	if len(movers) == 0 {
		return sequence{}, domain.InvalidConfiguration(o.name, "no sub-movers")
	}
	s := sequence{
		base:   newBase(o),
		movers: append([]PathMover(nil), movers...),
	}
	s.logInit("movers", moverNames(movers))
	return s, nil
}

// Submovers returns the sub-movers in order.
func (s *sequence) Submovers() []PathMover {
	return append([]PathMover(nil), s.movers...)
}

// run executes the sub-movers. With stopOnReject it stops at the first
// rejected sample, which is included in the output and reported through
// failed. initial is the private view before any sub-mover ran.
func (s *sequence) run(ctx context.Context, state ports.GlobalState, stopOnReject bool) (out []domain.Sample, initial *domain.SampleSet, failed bool, err error) {
	initial = domain.NewSampleSet(s.LegalSampleSet(state, EnsembleSelection{})...)
	view := initial.Clone()

	for i, mover := range s.movers {
		samples, err := mover.Move(ctx, view)
		if err != nil {
			return nil, nil, false, err
		}
		for _, sample := range tagChoice(samples, s.name, i) {
			out = append(out, sample)
			view.ApplySamples([]domain.Sample{sample})
			if stopOnReject && !sample.Accepted() {
				s.logger.Debug("sequence stopped", "index", i, "submover", mover.Name(), "replica", sample.Replica)
				return out, initial, true, nil
			}
		}
	}
	return out, initial, false, nil
}

// IndependentSequentialMover runs every sub-mover in order and returns all
// their samples regardless of acceptance.
type IndependentSequentialMover struct {
	sequence
}

// NewIndependentSequentialMover creates an independent sequence.
func NewIndependentSequentialMover(movers []PathMover, opts ...Option) (*IndependentSequentialMover, error) {
	seq, err := newSequence("sequential", movers, opts)
	if err != nil {
		return nil, err
	}
	return &IndependentSequentialMover{sequence: seq}, nil
}

// Move runs the whole sequence.
func (m *IndependentSequentialMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	m.emit(ctx, domain.PhaseStart, domain.NoReplica, nil)
	out, _, _, err := m.run(ctx, state, false)
	if err != nil {
		return nil, err
	}
	m.emit(ctx, domain.PhaseReturned, domain.NoReplica, nil)
	return out, nil
}

// PartialAcceptanceSequentialMover runs sub-movers in order until one
// rejects. The rejected sample is returned; later sub-movers never run.
type PartialAcceptanceSequentialMover struct {
	sequence
}

// NewPartialAcceptanceSequentialMover creates a partial-acceptance sequence.
func NewPartialAcceptanceSequentialMover(movers []PathMover, opts ...Option) (*PartialAcceptanceSequentialMover, error) {
	seq, err := newSequence("partial_sequential", movers, opts)
	if err != nil {
		return nil, err
	}
	return &PartialAcceptanceSequentialMover{sequence: seq}, nil
}

// Move runs the sequence up to the first rejection.
func (m *PartialAcceptanceSequentialMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	m.emit(ctx, domain.PhaseStart, domain.NoReplica, nil)
	out, _, _, err := m.run(ctx, state, true)
	if err != nil {
		return nil, err
	}
	m.emit(ctx, domain.PhaseReturned, domain.NoReplica, nil)
	return out, nil
}

// ConditionalSequentialMover is all-or-nothing: when a sub-move rejects,
// every sample produced earlier in the sequence is rejected retroactively.
type ConditionalSequentialMover struct {
	sequence
}

// NewConditionalSequentialMover creates a conditional sequence.
func NewConditionalSequentialMover(movers []PathMover, opts ...Option) (*ConditionalSequentialMover, error) {
	seq, err := newSequence("conditional_sequential", movers, opts)
	if err != nil {
		return nil, err
	}
	return &ConditionalSequentialMover{sequence: seq}, nil
}

// Move runs the sequence. On failure every returned sample restores its
// replica to the sample it had before the sequence started; samples for
// replicas the sequence created are dropped.
func (m *ConditionalSequentialMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	m.emit(ctx, domain.PhaseStart, domain.NoReplica, nil)
	out, initial, failed, err := m.run(ctx, state, true)
	if err != nil {
		return nil, err
	}
	if failed {
		out = m.revert(out, initial)
	}
	m.emit(ctx, domain.PhaseReturned, domain.NoReplica, nil)
	return out, nil
}

func (m *ConditionalSequentialMover) revert(samples []domain.Sample, initial *domain.SampleSet) []domain.Sample {
	last := len(samples) - 1
	reverted := make([]domain.Sample, 0, len(samples))
	touched := make(map[int]bool, len(samples))

	for i, s := range samples {
		original, ok := initial.Sample(s.Replica)
		if !ok {
			m.logger.Debug("dropping sample of new replica", "replica", s.Replica)
			continue
		}
		if i == last && !touched[s.Replica] {
			// The failing sample already holds the replica's original path.
			reverted = append(reverted, s)
			continue
		}
		touched[s.Replica] = true

		details := s.Details.Clone()
		if details == nil {
			details = domain.NewMoveDetails(nil)
		}
		details.Accepted = domain.VerdictRejected
		details.Reverted = true
		details.Result = original.Trajectory

		reverted = append(reverted, domain.Sample{
			Replica:    s.Replica,
			Trajectory: original.Trajectory,
			Ensemble:   original.Ensemble,
			Details:    details,
		})
	}
	return reverted
}
