package movers

import (
	"context"
	"math"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// MixedMover runs exactly one of its sub-movers, drawn with probability
// proportional to its weight.
type MixedMover struct {
	base
	movers     []PathMover
	weights    []float64
	cumulative []float64
}

// NewMixedMover creates a mixed move. nil weights mean uniform.
func NewMixedMover(movers []PathMover, weights []float64, opts ...Option) (*MixedMover, error) {
	o := newOptions("mixed", opts)
	if len(movers) == 0 {
		return nil, domain.InvalidConfiguration(o.name, "no sub-movers")
	}
	if weights == nil {
		weights = make([]float64, len(movers))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(movers) {
		return nil, domain.InvalidConfiguration(o.name, "%d weights for %d sub-movers", len(weights), len(movers))
	}

	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, domain.InvalidConfiguration(o.name, "weight %d is not finite (%g)", i, w)
		}
		if w < 0 {
			return nil, domain.InvalidConfiguration(o.name, "weight %d is negative (%g)", i, w)
		}
		total += w
		cumulative[i] = total
	}
	if math.IsInf(total, 0) {
		return nil, domain.InvalidConfiguration(o.name, "weights overflow")
	}
	if total == 0 {
		return nil, domain.InvalidConfiguration(o.name, "all weights are zero")
	}

	m := &MixedMover{
		base:       newBase(o),
		movers:     append([]PathMover(nil), movers...),
		weights:    append([]float64(nil), weights...),
		cumulative: cumulative,
	}
	m.logInit("movers", moverNames(movers), "weights", weights)
	return m, nil
}

// Submovers returns the sub-movers in order.
func (m *MixedMover) Submovers() []PathMover {
	return append([]PathMover(nil), m.movers...)
}

// Weights returns the configured weights.
func (m *MixedMover) Weights() []float64 {
	return append([]float64(nil), m.weights...)
}

// Move draws a sub-mover and runs it once.
func (m *MixedMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	m.emit(ctx, domain.PhaseStart, domain.NoReplica, nil)

	idx := m.pick()
	m.logger.Debug("mixed choice", "index", idx, "submover", m.movers[idx].Name())
	samples, err := m.movers[idx].Move(ctx, state)
	if err != nil {
		return nil, err
	}

	out := tagChoice(samples, m.name, idx)
	m.emit(ctx, domain.PhaseReturned, domain.NoReplica, nil)
	return out, nil
}

// pick draws an index; zero-weight entries are never chosen.
func (m *MixedMover) pick() int {
	total := m.cumulative[len(m.cumulative)-1]
	r := m.rng.Float64() * total
	for i, c := range m.cumulative {
		if r < c {
			return i
		}
	}
	for i := len(m.weights) - 1; i >= 0; i-- {
		if m.weights[i] > 0 {
			return i
		}
	}
	return 0
}

func tagChoice(samples []domain.Sample, mover string, idx int) []domain.Sample {
	out := make([]domain.Sample, len(samples))
	for i, s := range samples {
		out[i] = s.WithDetails(s.Details.WithChoice(domain.Choice{Mover: mover, Index: idx}))
	}
	return out
}

func moverNames(movers []PathMover) []string {
	names := make([]string, len(movers))
	for i, m := range movers {
		names[i] = m.Name()
	}
	return names
}
