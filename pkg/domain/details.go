package domain

// MoveDetails is the bookkeeping record of one move attempt.
// It is filled while the move runs and is read-only once attached to a
// returned Sample; composites that need to annotate it work on a Clone.
type MoveDetails struct {
	// Mover is a back-reference to the mover that produced the record.
	Mover Named

	// Inputs are the trajectories consumed by the move.
	Inputs []Trajectory

	// Trial is the proposed trajectory.
	Trial Trajectory

	// Result is Trial when accepted, the previous trajectory otherwise.
	Result Trajectory

	Accepted Verdict

	// AcceptanceProbability is the probability the acceptance test used.
	AcceptanceProbability float64

	// Trace records which branch each enclosing composite took, innermost
	// first.
	Trace []Choice

	// Reverted is set when a conditional sequence retroactively rejected a
	// previously accepted trial.
	Reverted bool

	// Extra holds mover-specific details.
	Extra Extra
}

// Choice tags a sample with the index of the sub-mover that produced it.
type Choice struct {
	Mover string
	Index int
}

// NewMoveDetails starts a pending record for mover.
func NewMoveDetails(mover Named, inputs ...Trajectory) *MoveDetails {
	return &MoveDetails{
		Mover:    mover,
		Inputs:   inputs,
		Accepted: VerdictPending,
	}
}

// IsAccepted reports whether the trial was accepted.
func (d *MoveDetails) IsAccepted() bool {
	return d != nil && d.Accepted == VerdictAccepted
}

// MoverName returns the name of the owning mover.
func (d *MoveDetails) MoverName() string {
	if d == nil {
		return ""
	}
	return NameOf(d.Mover)
}

// Clone returns a copy that can be modified without touching d.
func (d *MoveDetails) Clone() *MoveDetails {
	if d == nil {
		return nil
	}
	c := *d
	if d.Inputs != nil {
		c.Inputs = append([]Trajectory(nil), d.Inputs...)
	}
	if d.Trace != nil {
		c.Trace = append([]Choice(nil), d.Trace...)
	}
	return &c
}

// WithChoice returns a copy with choice appended to the trace.
func (d *MoveDetails) WithChoice(choice Choice) *MoveDetails {
	c := d.Clone()
	if c == nil {
		c = &MoveDetails{Accepted: VerdictPending}
	}
	c.Trace = append(c.Trace, choice)
	return c
}

// Extra is the closed set of mover-specific detail records.
type Extra interface {
	isExtra()
}

// ShootingDetails is attached by forward and backward shooting moves.
type ShootingDetails struct {
	Direction       Direction
	Start           Trajectory
	StartPoint      ShootingPoint
	FinalPoint      ShootingPoint
	TrialInEnsemble bool
}

// HopDetails is attached by ensemble hops.
type HopDetails struct {
	InitialEnsemble Ensemble
	TrialEnsemble   Ensemble
	ResultEnsemble  Ensemble
}

// ExchangeDetails is attached by replica exchanges.
type ExchangeDetails struct {
	Ensembles [2]Ensemble
}

// ReplicaChangeDetails is attached by replica-id changes.
type ReplicaChangeDetails struct {
	OldReplica int
	NewReplica int
}

func (ShootingDetails) isExtra()      {}
func (HopDetails) isExtra()           {}
func (ExchangeDetails) isExtra()      {}
func (ReplicaChangeDetails) isExtra() {}
