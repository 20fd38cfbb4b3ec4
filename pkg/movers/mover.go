package movers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// PathMover generates trial moves over the global state.
// Move never mutates state; it returns the new samples for the caller to
// apply. Rejection is reported through the sample details, not as an error.
type PathMover interface {
	Name() string
	Move(ctx context.Context, state ports.GlobalState) ([]domain.Sample, error)
}

// Composite is implemented by movers that delegate to sub-movers.
type Composite interface {
	PathMover
	Submovers() []PathMover
}

// ReplicaSelection restricts the replicas a mover may pick from.
type ReplicaSelection struct {
	all bool
	ids []int
}

// AllReplicas selects every replica of the state.
func AllReplicas() ReplicaSelection {
	return ReplicaSelection{all: true}
}

// Replicas selects an explicit list of replicas.
func Replicas(ids ...int) ReplicaSelection {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return ReplicaSelection{ids: slices.Compact(sorted)}
}

// All reports whether the selection is the all-replicas sentinel.
func (s ReplicaSelection) All() bool { return s.all }

func (s ReplicaSelection) String() string {
	if s.all {
		return "all"
	}
	return fmt.Sprint(s.ids)
}

// EnsembleSelection restricts the ensembles a mover may pick from.
// The zero value is unset and defers to the next default.
type EnsembleSelection struct {
	all  bool
	list []domain.Ensemble
}

// AllEnsembles selects every ensemble.
func AllEnsembles() EnsembleSelection {
	return EnsembleSelection{all: true}
}

// Ensembles selects an explicit list of ensembles. An empty list is an
// explicit selection that matches nothing.
func Ensembles(ens ...domain.Ensemble) EnsembleSelection {
	list := make([]domain.Ensemble, 0, len(ens))
	for _, e := range ens {
		if !slices.Contains(list, e) {
			list = append(list, e)
		}
	}
	return EnsembleSelection{list: list}
}

// IsSet reports whether the selection says anything.
func (s EnsembleSelection) IsSet() bool { return s.all || s.list != nil }

// All reports whether the selection is the all-ensembles sentinel.
func (s EnsembleSelection) All() bool { return s.all }

// List returns the explicit ensembles, nil for the sentinel or unset.
func (s EnsembleSelection) List() []domain.Ensemble { return slices.Clone(s.list) }

func (s EnsembleSelection) matches(ens domain.Ensemble) bool {
	if s.all || !s.IsSet() {
		return true
	}
	return slices.Contains(s.list, ens)
}

func (s EnsembleSelection) String() string {
	switch {
	case s.all:
		return "all"
	case !s.IsSet():
		return "unset"
	}
	names := make([]string, len(s.list))
	for i, e := range s.list {
		names[i] = domain.NameOf(e)
	}
	return "[" + strings.Join(names, " ") + "]"
}

// ExchangeBias returns the relative weight of trajectory traj in ensemble ens.
type ExchangeBias func(ens domain.Ensemble, traj domain.Trajectory) float64

// Option configures a mover.
type Option func(*options)

type options struct {
	name      string
	replicas  ReplicaSelection
	ensembles EnsembleSelection
	rng       *rand.Rand
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	maxLength int
	bias      ExchangeBias
}

// WithName overrides the mover's default name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithReplicas restricts the replicas the mover selects from.
func WithReplicas(sel ReplicaSelection) Option {
	return func(o *options) {
		o.replicas = sel
	}
}

// WithEnsembles restricts the ensembles the mover selects from.
func WithEnsembles(sel EnsembleSelection) Option {
	return func(o *options) {
		o.ensembles = sel
	}
}

// WithRand injects the random source. Movers sharing a source replay
// exactly for a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSeed gives the mover its own PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithMaxLength caps the trial length of shooting moves. Zero uses the
// engine's MaxLength.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithExchangeBias sets the per-ensemble weights used by replica exchange.
func WithExchangeBias(bias ExchangeBias) Option {
	return func(o *options) {
		o.bias = bias
	}
}

func newOptions(defaultName string, opts []Option) options {
	o := options{
		name:     defaultName,
		replicas: AllReplicas(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// base holds the selection state shared by every mover.
type base struct {
	name      string
	replicas  ReplicaSelection
	ensembles EnsembleSelection
	rng       *rand.Rand
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

func newBase(o options) base {
	return base{
		name:      o.name,
		replicas:  o.replicas,
		ensembles: o.ensembles,
		rng:       o.rng,
		logger:    o.logger.With("mover", o.name),
		hooks:     o.hooks,
	}
}

// Name returns the mover's name.
func (b *base) Name() string { return b.name }

// Replicas returns the replica selection.
func (b *base) Replicas() ReplicaSelection { return b.replicas }

// Ensembles returns the ensemble selection.
func (b *base) Ensembles() EnsembleSelection { return b.ensembles }

// logInit emits the constructor log entry.
func (b *base) logInit(args ...any) {
	args = append([]any{"replicas", b.replicas.String(), "ensembles", b.ensembles.String()}, args...)
	b.logger.Debug("mover initialized", args...)
}

// LegalSampleSet returns the samples the mover may select: those of its
// replicas whose ensemble matches filter. An unset filter falls back to
// the mover's own ensembles, and an unset mover selection to all
// ensembles. Samples are ordered by replica.
func (b *base) LegalSampleSet(state ports.GlobalState, filter EnsembleSelection) []domain.Sample {
	if !filter.IsSet() {
		filter = b.ensembles
	}

	ids := b.replicas.ids
	if b.replicas.all {
		ids = state.ReplicaList()
	}

	var legal []domain.Sample
	for _, id := range ids {
		for _, s := range state.AllFromReplica(id) {
			if filter.matches(s.Ensemble) {
				legal = append(legal, s)
			}
		}
	}
	return legal
}

// SelectSample picks one legal sample uniformly at random.
func (b *base) SelectSample(state ports.GlobalState, filter EnsembleSelection) (domain.Sample, error) {
	legal := b.LegalSampleSet(state, filter)
	if len(legal) == 0 {
		if !filter.IsSet() {
			filter = b.ensembles
		}
		return domain.Sample{}, fmt.Errorf("%s: replicas %s, ensembles %s: %w",
			b.name, b.replicas, filter, domain.ErrEmptySelection)
	}
	return legal[b.rng.IntN(len(legal))], nil
}

// SelectionProbabilityRatio is the proposal asymmetry correction. Only
// shooting moves have an asymmetric proposal.
func (b *base) SelectionProbabilityRatio(details *domain.MoveDetails) float64 {
	if details == nil {
		return 1.0
	}
	if sd, ok := details.Extra.(domain.ShootingDetails); ok && sd.FinalPoint.SumBias != 0 {
		return sd.StartPoint.SumBias / sd.FinalPoint.SumBias
	}
	return 1.0
}

// metropolis accepts with probability p, drawing only when 0 < p < 1.
func (b *base) metropolis(p float64) domain.Verdict {
	switch {
	case p >= 1:
		return domain.VerdictAccepted
	case p <= 0:
		return domain.VerdictRejected
	case b.rng.Float64() < p:
		return domain.VerdictAccepted
	default:
		return domain.VerdictRejected
	}
}

func (b *base) emit(ctx context.Context, phase domain.Phase, replica int, details *domain.MoveDetails) {
	e := &domain.MoveEvent{
		Phase:   phase,
		Mover:   b.name,
		Replica: replica,
	}
	if details != nil {
		e.TrialLength = details.Trial.Len()
		if phase != domain.PhaseStart && phase != domain.PhaseProposed {
			e.Verdict = details.Accepted
			e.Probability = details.AcceptanceProbability
		}
	}
	b.hooks.Emit(ctx, e)
}

// decide records the verdict on details and emits the decision event.
func (b *base) decide(ctx context.Context, replica int, details *domain.MoveDetails, p float64, v domain.Verdict) {
	details.AcceptanceProbability = p
	details.Accepted = v
	b.emit(ctx, domain.PhaseFor(v), replica, details)
}

func minOne(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
