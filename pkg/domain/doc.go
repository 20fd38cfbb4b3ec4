/*
Package domain contains the core entities of transition path sampling.

It defines what movers read and produce, and is kept free of I/O and
persistence so every other package can depend on it.

# Key Entities

  - Snapshot, Trajectory: frames and immutable frame sequences (slice, concatenate, reverse).
  - Volume, Ensemble: pure predicates over frames and trajectories.
  - Sample: a replica's trajectory in an ensemble, plus the MoveDetails of the move that produced it.
  - MoveDetails: per-attempt bookkeeping, with mover-specific Extra records.
  - SampleSet: the global state (one active sample per replica).
  - LifecycleHooks: callbacks fired at each phase of a move and after each step.
*/
package domain
