package domain

// Verdict is the outcome of the acceptance test of one trial.
type Verdict string

const (
	VerdictPending  Verdict = "pending"  // Trial not decided yet
	VerdictAccepted Verdict = "accepted" // Trial became the new path
	VerdictRejected Verdict = "rejected" // Previous path was kept
)

// Phase is a step of the per-move state machine:
// START -> PROPOSED -> {ACCEPTED | REJECTED} -> RETURNED.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseProposed Phase = "proposed"
	PhaseAccepted Phase = "accepted"
	PhaseRejected Phase = "rejected"
	PhaseReturned Phase = "returned"
)

// PhaseFor maps a decided verdict to its phase.
func PhaseFor(v Verdict) Phase {
	if v == VerdictAccepted {
		return PhaseAccepted
	}
	return PhaseRejected
}
