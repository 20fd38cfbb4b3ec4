/*
Package ports defines the driven ports (interfaces) of the path sampling core.

These interfaces decouple the movers from the collaborators they consume, so
dynamics engines, shooting-point selectors, the global state and step
journals can be swapped without touching mover logic.

# Key Interfaces

  - DynamicsEngine: propagates trajectories from a snapshot until a running predicate stops it.
  - ShootingPointSelector: picks shooting points and reports their bias.
  - GlobalState: read-only view of the active samples.
  - StepStore: journal of step summaries (memory or Redis).
*/
package ports
