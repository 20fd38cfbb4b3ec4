package pathsampling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/pathsampling"

// Simulation drives a root mover over a sample set, one Monte Carlo step at
// a time. It owns the global state: movers only read it, and the simulation
// applies their samples after each step.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	root   movers.PathMover
	state  *domain.SampleSet
	step   int
	runID  string
	stats  map[string]MoverStats
	store  ports.StepStore
	locker ports.RunLocker
	ttl    time.Duration
	tracer trace.Tracer
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// MoverStats counts the samples a mover returned and how many of them were
// accepted.
type MoverStats struct {
	Trials   int `json:"trials"`
	Accepted int `json:"accepted"`
}

// Rate is the acceptance ratio, or 0 before the first trial.
func (s MoverStats) Rate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Trials)
}

// Option defines a functional option for configuring the Simulation.
type Option func(*Simulation)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithStepStore journals every step record to store.
func WithStepStore(store ports.StepStore) Option {
	return func(s *Simulation) {
		s.store = store
	}
}

// WithRunLocker makes Run hold a lock on the run ID for its duration.
func WithRunLocker(locker ports.RunLocker, ttl time.Duration) Option {
	return func(s *Simulation) {
		s.locker = locker
		s.ttl = ttl
	}
}

// WithRunID names the run in the journal. A random UUID is used otherwise.
func WithRunID(id string) Option {
	return func(s *Simulation) {
		s.runID = id
	}
}

// WithTracer sets the tracer used for step spans. The global tracer
// provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Simulation) {
		s.tracer = tracer
	}
}

// WithLifecycleHooks registers hooks for step events. Move events are
// emitted by the movers themselves and need movers.WithLifecycleHooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulation) {
		s.hooks = hooks
	}
}

// New creates a simulation of root starting from initial. The initial set is
// cloned; later changes to it are not seen by the simulation.
func New(root movers.PathMover, initial *domain.SampleSet, opts ...Option) (*Simulation, error) {
	if root == nil {
		return nil, errors.New("root mover is required")
	}
	if initial == nil || initial.Len() == 0 {
		return nil, errors.New("initial sample set is empty")
	}

	s := &Simulation{
		root:  root,
		state: initial.Clone(),
		stats: make(map[string]MoverStats),
		ttl:   time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.logger = s.logger.With("run_id", s.runID)

	return s, nil
}

// RunID returns the journal name of the run.
func (s *Simulation) RunID() string { return s.runID }

// Steps returns the number of completed steps.
func (s *Simulation) Steps() int { return s.step }

// State returns a copy of the current sample set.
func (s *Simulation) State() *domain.SampleSet { return s.state.Clone() }

// Stats returns acceptance counts per mover, keyed by the name of the mover
// that produced each sample.
func (s *Simulation) Stats() map[string]MoverStats { return maps.Clone(s.stats) }

// Step runs the root mover once and applies the returned samples.
// On error the state is left unchanged.
func (s *Simulation) Step(ctx context.Context) (domain.StepRecord, error) {
	start := time.Now()
	number := s.step + 1

	ctx, span := s.tracer.Start(ctx, "pathsampling.Step",
		trace.WithAttributes(
			attribute.String("run_id", s.runID),
			attribute.Int("step", number),
			attribute.String("mover", s.root.Name()),
		),
	)
	defer span.End()

	samples, err := s.root.Move(ctx, s.state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("step failed", "step", number, "error", err)
		return domain.StepRecord{}, fmt.Errorf("step %d: %w", number, err)
	}

	next := s.state.Clone()
	next.ApplySamples(samples)

	rec := domain.StepRecord{
		Step:    number,
		Mover:   s.root.Name(),
		Samples: make([]domain.SampleRecord, len(samples)),
		Changed: domain.Diff(s.state, next),
	}
	for i, sample := range samples {
		rec.Samples[i] = domain.NewSampleRecord(sample)
	}

	if s.store != nil {
		if err := s.store.Append(ctx, s.runID, rec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "journal failed")
			return domain.StepRecord{}, fmt.Errorf("step %d: journal: %w", number, err)
		}
	}

	s.state = next
	s.step = number
	for _, sr := range rec.Samples {
		st := s.stats[sr.Mover]
		st.Trials++
		if sr.Accepted {
			st.Accepted++
		}
		s.stats[sr.Mover] = st
	}

	span.SetAttributes(
		attribute.Bool("accepted", rec.Accepted()),
		attribute.Int("samples", len(samples)),
	)
	span.SetStatus(codes.Ok, "")

	duration := time.Since(start)
	s.logger.Debug("step", "step", number, "samples", len(samples), "accepted", rec.Accepted(), "duration", duration)
	if s.hooks.OnStep != nil {
		s.hooks.OnStep(ctx, &domain.StepEvent{
			Timestamp: time.Now(),
			RunID:     s.runID,
			Record:    rec,
			Duration:  duration,
		})
	}
	return rec, nil
}

// Run performs n steps. It stops at the first failing step or when ctx is
// done, and returns the number of steps completed by this call.
func (s *Simulation) Run(ctx context.Context, n int) (int, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, s.runID, s.ttl)
		if err != nil {
			return 0, fmt.Errorf("lock run %s: %w", s.runID, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	for i := range n {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.Step(ctx); err != nil {
			return i, err
		}
	}
	return n, nil
}
