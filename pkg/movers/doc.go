/*
Package movers implements the path movers: Monte Carlo trial moves over
trajectory space and the combinators that compose them.

Leaf movers select a sample from the global state, build a trial and run an
acceptance test. Composite movers decide which sub-movers run and how their
samples combine. Every mover implements PathMover:

	samples, err := mover.Move(ctx, state)

Move never mutates state. Rejected trials are not errors; they come back as
samples carrying the previous trajectory and a rejected verdict.

# Movers

  - ShootMover (forward and backward): one-way shooting with biased Metropolis acceptance.
  - PathReversalMover: time reversal, accepted when the ensemble still holds.
  - ReplicaExchange: swaps trajectories between two ensembles.
  - EnsembleHopMover: relabels a trajectory into another ensemble.
  - ReplicaIDChange: moves a trajectory to a new replica id.
  - MixedMover: weighted random choice of one sub-mover.
  - IndependentSequentialMover, PartialAcceptanceSequentialMover,
    ConditionalSequentialMover: ordered execution with different failure rules.
  - MinusMove: placeholder returning domain.ErrIncompleteMove.

Randomness comes from an injected math/rand/v2 source (WithRand, WithSeed),
so a run with a fixed seed replays exactly.
*/
package movers
