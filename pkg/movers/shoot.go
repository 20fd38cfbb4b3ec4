package movers

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/aretw0/pathsampling/pkg/selector"
)

// ShootMover is a one-way shooting move. Forward shooting keeps the frames
// before the shooting point and regenerates the rest; backward shooting
// keeps the frames after it and regenerates the beginning in reversed time.
type ShootMover struct {
	base
	direction domain.Direction
	engine    ports.DynamicsEngine
	selector  ports.ShootingPointSelector
	maxLength int
}

// NewForwardShootMover creates a forward shooting move.
func NewForwardShootMover(engine ports.DynamicsEngine, selector ports.ShootingPointSelector, opts ...Option) *ShootMover {
	return newShootMover(domain.Forward, "forward_shoot", engine, selector, opts)
}

// NewBackwardShootMover creates a backward shooting move.
func NewBackwardShootMover(engine ports.DynamicsEngine, selector ports.ShootingPointSelector, opts ...Option) *ShootMover {
	return newShootMover(domain.Backward, "backward_shoot", engine, selector, opts)
}

func newShootMover(dir domain.Direction, name string, engine ports.DynamicsEngine, selector ports.ShootingPointSelector, opts []Option) *ShootMover {
	o := newOptions(name, opts)
	m := &ShootMover{
		base:      newBase(o),
		direction: dir,
		engine:    engine,
		selector:  selector,
		maxLength: o.maxLength,
	}
	m.logInit("direction", dir, "max_length", o.maxLength)
	return m
}

// Direction returns the shooting direction.
func (m *ShootMover) Direction() domain.Direction { return m.direction }

func (m *ShootMover) maxLen() int {
	if m.maxLength > 0 {
		return m.maxLength
	}
	return m.engine.MaxLength()
}

// Move shoots from a point of a selected sample and applies the biased
// Metropolis test.
func (m *ShootMover) Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error) {
	sample, err := m.SelectSample(state, EnsembleSelection{})
	if err != nil {
		return nil, err
	}
	m.emit(ctx, domain.PhaseStart, sample.Replica, nil)

	traj, ens := sample.Trajectory, sample.Ensemble
	start, err := m.selector.Pick(m.rng, traj)
	if err != nil {
		return nil, fmt.Errorf("%s: pick shooting point: %w", m.name, err)
	}

	maxLen := m.maxLen()
	m.logger.Debug("shooting",
		"direction", m.direction,
		"frame", start.Index,
		"max_frame", traj.Len()-1,
		"replica", sample.Replica,
		"ensemble", domain.NameOf(ens),
	)

	trial, finalIndex, err := m.propagate(ctx, traj, ens, start, maxLen)
	if err != nil {
		return nil, err
	}

	// A trial too short to hold a shooting point cannot be sampled again,
	// so it is rejected rather than failing the step.
	final, err := m.selector.PointAt(trial, finalIndex)
	tooShort := errors.Is(err, selector.ErrTooShort)
	if err != nil && !tooShort {
		return nil, fmt.Errorf("%s: final shooting point: %w", m.name, err)
	}

	inEnsemble := !tooShort && trial.Len() <= maxLen && ens.Contains(trial)

	details := domain.NewMoveDetails(m, traj)
	details.Trial = trial
	details.Extra = domain.ShootingDetails{
		Direction:       m.direction,
		Start:           traj,
		StartPoint:      start,
		FinalPoint:      final,
		TrialInEnsemble: inEnsemble,
	}
	m.emit(ctx, domain.PhaseProposed, sample.Replica, details)

	p := 0.0
	verdict := domain.VerdictRejected
	if inEnsemble {
		p = minOne(m.SelectionProbabilityRatio(details))
		if m.rng.Float64() < p {
			verdict = domain.VerdictAccepted
		}
	}
	m.logger.Debug("proposal probability",
		"start_bias", start.SumBias,
		"final_bias", final.SumBias,
		"probability", p,
		"verdict", verdict,
	)

	details.Result = traj
	if verdict == domain.VerdictAccepted {
		details.Result = trial
	}
	m.decide(ctx, sample.Replica, details, p, verdict)

	out := domain.Sample{
		Replica:    sample.Replica,
		Trajectory: details.Result,
		Ensemble:   ens,
		Details:    details,
	}
	m.emit(ctx, domain.PhaseReturned, sample.Replica, details)
	return []domain.Sample{out}, nil
}

// propagate runs the engine from the shooting point and splices the new
// segment with the retained part. It returns the trial and the index of
// the shooting point within it.
func (m *ShootMover) propagate(ctx context.Context, traj domain.Trajectory, ens domain.Ensemble, start domain.ShootingPoint, maxLen int) (domain.Trajectory, int, error) {
	var (
		retained domain.Trajectory
		running  domain.RunningPredicate
		seed     domain.Snapshot
	)
	if m.direction == domain.Forward {
		retained = traj.Slice(0, start.Index)
		running = domain.AppendedTo(ens, retained)
		seed = start.Snapshot
	} else {
		retained = traj.Slice(start.Index+1, traj.Len())
		running = domain.PrependedTo(ens, retained)
		seed = start.Snapshot.Reversed()
	}

	kept := retained.Len()
	stopper := func(partial domain.Trajectory) bool {
		return kept+partial.Len() < maxLen
	}

	partial, err := m.engine.Generate(ctx, seed, running, stopper)
	if err != nil {
		return domain.Trajectory{}, 0, fmt.Errorf("%s: generate: %w", m.name, err)
	}
	if partial.Len() == 0 {
		return domain.Trajectory{}, 0, fmt.Errorf("%s: %w", m.name, errEmptyPropagation)
	}

	if m.direction == domain.Forward {
		return retained.Concat(partial), start.Index, nil
	}
	return partial.Reversed().Concat(retained), partial.Len() - 1, nil
}

var errEmptyPropagation = errors.New("engine returned an empty trajectory")
