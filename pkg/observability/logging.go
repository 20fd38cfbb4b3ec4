package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/pathsampling/pkg/domain"
)

// LoggingHooks logs every decided trial and every driver step.
// Move starts and returns are logged only at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMoveStart: func(ctx context.Context, e *domain.MoveEvent) {
			logger.DebugContext(ctx, "move_start", "mover", e.Mover, "replica", e.Replica)
		},
		OnMoveDecided: func(ctx context.Context, e *domain.MoveEvent) {
			logger.DebugContext(ctx, "move_decided",
				"mover", e.Mover,
				"replica", e.Replica,
				"verdict", e.Verdict,
				"probability", e.Probability,
				"trial_length", e.TrialLength,
			)
		},
		OnMoveReturn: func(ctx context.Context, e *domain.MoveEvent) {
			logger.DebugContext(ctx, "move_return", "mover", e.Mover)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step",
				"run_id", e.RunID,
				"step", e.Record.Step,
				"mover", e.Record.Mover,
				"accepted", e.Record.Accepted(),
				"duration", e.Duration,
			)
		},
	}
}
