package movers_test

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/stretchr/testify/mock"
)

// snap is a comparable 1D frame; V is the direction of motion.
type snap struct {
	X float64
	V int
}

func (s snap) Reversed() domain.Snapshot { return snap{X: s.X, V: -s.V} }

func path(xs ...float64) domain.Trajectory {
	frames := make([]domain.Snapshot, len(xs))
	for i, x := range xs {
		frames[i] = snap{X: x, V: 1}
	}
	return domain.NewTrajectory(frames...)
}

func xs(traj domain.Trajectory) []float64 {
	out := make([]float64, traj.Len())
	for i := range out {
		out[i] = traj.At(i).(snap).X
	}
	return out
}

func firstX(traj domain.Trajectory) float64 { return traj.First().(snap).X }
func lastX(traj domain.Trajectory) float64  { return traj.Last().(snap).X }

// testEnsemble delegates to optional predicates; nil means always true.
type testEnsemble struct {
	name       string
	contains   func(domain.Trajectory) bool
	canAppend  func(domain.Trajectory) bool
	canPrepend func(domain.Trajectory) bool
}

func (e *testEnsemble) Name() string { return e.name }

func (e *testEnsemble) Contains(traj domain.Trajectory) bool {
	return e.contains == nil || e.contains(traj)
}

func (e *testEnsemble) CanAppend(traj domain.Trajectory) bool {
	return e.canAppend == nil || e.canAppend(traj)
}

func (e *testEnsemble) CanPrepend(traj domain.Trajectory) bool {
	return e.canPrepend == nil || e.canPrepend(traj)
}

func (e *testEnsemble) Split(traj domain.Trajectory) []domain.Trajectory {
	if e.Contains(traj) {
		return []domain.Trajectory{traj}
	}
	return nil
}

func anyEnsemble(name string) *testEnsemble { return &testEnsemble{name: name} }

// transitionEnsemble holds paths that start at or below 0 and end at or
// above 3; propagation stops once either boundary is crossed.
func transitionEnsemble(name string) *testEnsemble {
	return &testEnsemble{
		name: name,
		contains: func(t domain.Trajectory) bool {
			return t.Len() > 0 && firstX(t) <= 0 && lastX(t) >= 3
		},
		canAppend: func(t domain.Trajectory) bool {
			return t.Len() == 0 || lastX(t) < 3
		},
		canPrepend: func(t domain.Trajectory) bool {
			return t.Len() == 0 || firstX(t) > 0
		},
	}
}

// stepEngine moves X by step*V per frame while the predicates allow it.
type stepEngine struct {
	step  float64
	max   int
	calls int
}

func (e *stepEngine) MaxLength() int { return e.max }

func (e *stepEngine) Generate(ctx context.Context, start domain.Snapshot, running ...domain.RunningPredicate) (domain.Trajectory, error) {
	e.calls++
	frames := []domain.Snapshot{start}
	for len(frames) < 10000 {
		if err := ctx.Err(); err != nil {
			return domain.Trajectory{}, err
		}
		partial := domain.NewTrajectory(frames...)
		for _, keep := range running {
			if !keep(partial) {
				return partial, nil
			}
		}
		last := frames[len(frames)-1].(snap)
		frames = append(frames, snap{X: last.X + e.step*float64(last.V), V: last.V})
	}
	return domain.Trajectory{}, fmt.Errorf("runaway propagation")
}

// mockEngine is a testify mock of ports.DynamicsEngine.
type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Generate(ctx context.Context, start domain.Snapshot, running ...domain.RunningPredicate) (domain.Trajectory, error) {
	args := m.Called(ctx, start)
	return args.Get(0).(domain.Trajectory), args.Error(1)
}

func (m *mockEngine) MaxLength() int {
	return m.Called().Int(0)
}

// fixedSelector always picks the same frame. bias computes SumBias.
type fixedSelector struct {
	index int
	bias  func(domain.Trajectory) float64
}

func (s fixedSelector) Pick(_ *rand.Rand, traj domain.Trajectory) (domain.ShootingPoint, error) {
	return s.PointAt(traj, s.index)
}

func (s fixedSelector) PointAt(traj domain.Trajectory, index int) (domain.ShootingPoint, error) {
	if index < 0 || index >= traj.Len() {
		return domain.ShootingPoint{}, fmt.Errorf("index %d out of range", index)
	}
	sum := 1.0
	if s.bias != nil {
		sum = s.bias(traj)
	}
	return domain.ShootingPoint{Index: index, Snapshot: traj.At(index), F: 1, SumBias: sum}, nil
}

func lengthBias(traj domain.Trajectory) float64 { return float64(traj.Len()) }

// scriptedMover returns a preset verdict for the first sample of its
// ensemble and counts its calls.
type scriptedMover struct {
	name    string
	verdict domain.Verdict
	ens     domain.Ensemble
	traj    domain.Trajectory
	calls   int
	seen    []domain.Trajectory
}

func (m *scriptedMover) Name() string { return m.name }

func (m *scriptedMover) Move(_ context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	m.calls++
	current := state.AllFromEnsemble(m.ens)
	if len(current) == 0 {
		return nil, fmt.Errorf("%s: %w", m.name, domain.ErrEmptySelection)
	}
	in := current[0]
	m.seen = append(m.seen, in.Trajectory)

	details := &domain.MoveDetails{Mover: m, Inputs: []domain.Trajectory{in.Trajectory}, Trial: m.traj, Accepted: m.verdict}
	out := in
	if m.verdict == domain.VerdictAccepted {
		out.Trajectory = m.traj
		details.AcceptanceProbability = 1
	}
	details.Result = out.Trajectory
	return []domain.Sample{out.WithDetails(details)}, nil
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
