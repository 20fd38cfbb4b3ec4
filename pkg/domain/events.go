package domain

import (
	"context"
	"time"
)

// MoveEvent is emitted at each phase of a single move attempt.
type MoveEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Phase     Phase     `json:"phase"`
	Mover     string    `json:"mover"`
	Replica   int       `json:"replica"`

	// Verdict and Probability are set once the trial is decided.
	Verdict     Verdict `json:"verdict,omitempty"`
	Probability float64 `json:"probability,omitempty"`

	// TrialLength is the number of frames of the proposed trajectory.
	TrialLength int `json:"trial_length,omitempty"`
}

// StepEvent is emitted by the simulation driver after each MC step.
type StepEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Record    StepRecord    `json:"record"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for mover and driver observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnMoveStart     func(context.Context, *MoveEvent)
	OnTrialProposed func(context.Context, *MoveEvent)
	OnMoveDecided   func(context.Context, *MoveEvent)
	OnMoveReturn    func(context.Context, *MoveEvent)
	OnStep          func(context.Context, *StepEvent)
}

// Emit dispatches a move event to the hook matching its phase.
func (h LifecycleHooks) Emit(ctx context.Context, e *MoveEvent) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	var fn func(context.Context, *MoveEvent)
	switch e.Phase {
	case PhaseStart:
		fn = h.OnMoveStart
	case PhaseProposed:
		fn = h.OnTrialProposed
	case PhaseAccepted, PhaseRejected:
		fn = h.OnMoveDecided
	case PhaseReturned:
		fn = h.OnMoveReturn
	}
	if fn != nil {
		fn(ctx, e)
	}
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnMoveStart:     chainMove(h.OnMoveStart, other.OnMoveStart),
		OnTrialProposed: chainMove(h.OnTrialProposed, other.OnTrialProposed),
		OnMoveDecided:   chainMove(h.OnMoveDecided, other.OnMoveDecided),
		OnMoveReturn:    chainMove(h.OnMoveReturn, other.OnMoveReturn),
		OnStep:          chainStep(h.OnStep, other.OnStep),
	}
}

func chainMove(a, b func(context.Context, *MoveEvent)) func(context.Context, *MoveEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *MoveEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
