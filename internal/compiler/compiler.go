// Package compiler turns a validated run document into live objects: the
// volume, ensemble and selector catalog, the toy engine, the mover tree and
// the initial sample set.
package compiler

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/aretw0/pathsampling/pkg/adapters/toy"
	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ensemble"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/aretw0/pathsampling/pkg/registry"
	"github.com/aretw0/pathsampling/pkg/schema"
	"github.com/aretw0/pathsampling/pkg/selector"
)

// Program is a compiled document, ready to be handed to a Simulation.
type Program struct {
	Seed    uint64
	Steps   int
	Engine  *toy.Engine
	Catalog *registry.Catalog
	Root    movers.PathMover
	Initial *domain.SampleSet
}

// Option configures the compiler.
type Option func(*compiler)

// WithLogger is passed to every mover and to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *compiler) {
		c.logger = logger
	}
}

// WithLifecycleHooks is passed to every mover.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *compiler) {
		c.hooks = hooks
	}
}

type compiler struct {
	doc     *schema.Document
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	catalog *registry.Catalog
	engine  *toy.Engine
}

// Compile validates doc and builds its program. Random sources are derived
// from doc.Seed and the position of each mover in the tree, so the same
// document always yields the same run.
func Compile(doc *schema.Document, opts ...Option) (*Program, error) {
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	c := &compiler{
		doc:     doc,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		catalog: registry.NewCatalog(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.volumes(); err != nil {
		return nil, err
	}
	if err := c.ensembles(); err != nil {
		return nil, err
	}
	if err := c.selectors(); err != nil {
		return nil, err
	}

	engine, err := toy.NewEngine(c.engineConfig(),
		toy.WithSeed(DeriveSeed(doc.Seed, "engine")),
		toy.WithLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	c.engine = engine

	root, err := c.mover("mover", doc.Mover)
	if err != nil {
		return nil, err
	}
	initial, err := c.initial()
	if err != nil {
		return nil, err
	}

	return &Program{
		Seed:    doc.Seed,
		Steps:   doc.Steps,
		Engine:  engine,
		Catalog: c.catalog,
		Root:    root,
		Initial: initial,
	}, nil
}

// DeriveSeed hashes a run seed and a tree path into a stream seed.
func DeriveSeed(seed uint64, path string) uint64 {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d/%s", seed, path))
	return binary.BigEndian.Uint64(sum[:8])
}

func (c *compiler) rng(path string) *rand.Rand {
	seed := DeriveSeed(c.doc.Seed, path)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (c *compiler) engineConfig() toy.Config {
	cfg := toy.DefaultConfig()
	spec := c.doc.Engine
	if spec.DT != 0 {
		cfg.DT = spec.DT
	}
	if spec.Gamma != 0 {
		cfg.Gamma = spec.Gamma
	}
	if spec.Temperature != 0 {
		cfg.Temperature = spec.Temperature
	}
	if spec.MaxLength != 0 {
		cfg.MaxLength = spec.MaxLength
	}
	return cfg
}

func (c *compiler) volumes() error {
	for _, name := range slices.Sorted(maps.Keys(c.doc.Volumes)) {
		r := c.doc.Volumes[name]
		vol, err := ensemble.NewCVRange(name, toy.Position, r.Min, r.Max)
		if err != nil {
			return err
		}
		if err := c.catalog.Volumes.Register(name, vol); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) ensembles() error {
	for i, spec := range c.doc.Ensembles {
		ens, err := c.ensemble(spec)
		if err != nil {
			return fmt.Errorf("ensembles[%d]: %w", i, err)
		}
		if err := c.catalog.Ensembles.Register(spec.Name, ens); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) ensemble(spec schema.EnsembleSpec) (domain.Ensemble, error) {
	vol := func(name string) (domain.Volume, error) {
		return c.catalog.Volumes.Get(name)
	}
	switch spec.Type {
	case schema.EnsembleInterface:
		a, err := vol(spec.StateA)
		if err != nil {
			return nil, err
		}
		b, err := vol(spec.StateB)
		if err != nil {
			return nil, err
		}
		iface, err := vol(spec.Interface)
		if err != nil {
			return nil, err
		}
		return ensemble.NewInterface(spec.Name, a, b, iface), nil
	case schema.EnsembleAllIn:
		v, err := vol(spec.Volume)
		if err != nil {
			return nil, err
		}
		return renamed{ensemble.NewAllIn(v), spec.Name}, nil
	case schema.EnsembleAllOut:
		v, err := vol(spec.Volume)
		if err != nil {
			return nil, err
		}
		return renamed{ensemble.NewAllOut(v), spec.Name}, nil
	case schema.EnsembleLength:
		return renamed{ensemble.NewLength(spec.Length), spec.Name}, nil
	}
	return nil, fmt.Errorf("unknown ensemble type %q", spec.Type)
}

// renamed gives a built-in ensemble the name it has in the document.
type renamed struct {
	domain.Ensemble
	name string
}

func (r renamed) Name() string { return r.name }

func (c *compiler) selectors() error {
	for i, spec := range c.doc.Selectors {
		var sel ports.ShootingPointSelector
		switch spec.Type {
		case schema.SelectorUniform:
			sel = selector.NewUniform()
		case schema.SelectorGaussian:
			g, err := selector.NewGaussianBias(toy.Position, spec.Center, spec.Width)
			if err != nil {
				return fmt.Errorf("selectors[%d]: %w", i, err)
			}
			sel = g
		default:
			return fmt.Errorf("selectors[%d]: unknown selector type %q", i, spec.Type)
		}
		if err := c.catalog.Selectors.Register(spec.Name, sel); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) options(path string, spec schema.MoverSpec) ([]movers.Option, error) {
	opts := []movers.Option{
		movers.WithRand(c.rng(path)),
		movers.WithLogger(c.logger),
		movers.WithLifecycleHooks(c.hooks),
	}
	if spec.Name != "" {
		opts = append(opts, movers.WithName(spec.Name))
	}
	if len(spec.Ensembles) > 0 && spec.Type != schema.MoverOneWayShooting {
		ens, err := c.catalog.LookupEnsembles(spec.Ensembles...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, movers.WithEnsembles(movers.Ensembles(ens...)))
	}
	if len(spec.Replicas) > 0 {
		opts = append(opts, movers.WithReplicas(movers.Replicas(spec.Replicas...)))
	}
	if spec.MaxLength > 0 {
		opts = append(opts, movers.WithMaxLength(spec.MaxLength))
	}
	return opts, nil
}

func (c *compiler) mover(path string, spec schema.MoverSpec) (movers.PathMover, error) {
	m, err := c.build(path, spec)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, spec.Type, err)
	}
	return m, nil
}

func (c *compiler) build(path string, spec schema.MoverSpec) (movers.PathMover, error) {
	opts, err := c.options(path, spec)
	if err != nil {
		return nil, err
	}

	switch spec.Type {
	case schema.MoverForwardShoot, schema.MoverBackwardShoot:
		sel, err := c.catalog.Selectors.Get(spec.Selector)
		if err != nil {
			return nil, err
		}
		if spec.Type == schema.MoverForwardShoot {
			return movers.NewForwardShootMover(c.engine, sel, opts...), nil
		}
		return movers.NewBackwardShootMover(c.engine, sel, opts...), nil

	case schema.MoverOneWayShooting:
		sel, err := c.catalog.Selectors.Get(spec.Selector)
		if err != nil {
			return nil, err
		}
		ens, err := c.catalog.LookupEnsembles(spec.Ensembles...)
		if err != nil {
			return nil, err
		}
		set, err := movers.OneWayShootingSet(c.engine, []ports.ShootingPointSelector{sel}, ens, opts...)
		if err != nil {
			return nil, err
		}
		if len(set) == 1 {
			single, ok := set[0].(movers.Composite)
			if spec.Name == "" || !ok {
				return set[0], nil
			}
			// The factory names its movers after the ensemble; a document
			// name goes on the forward/backward mixer instead.
			return movers.NewMixedMover(single.Submovers(), nil,
				append(opts, movers.WithEnsembles(movers.Ensembles(ens...)))...)
		}
		if spec.Name == "" {
			opts = append(opts, movers.WithName("one_way_shooting_set"))
		}
		return movers.NewMixedMover(set, nil, opts...)

	case schema.MoverReversal:
		return movers.NewPathReversalMover(opts...), nil

	case schema.MoverHop, schema.MoverExchange:
		pairs := make([][]domain.Ensemble, len(spec.Pairs))
		for i, names := range spec.Pairs {
			ens, err := c.catalog.LookupEnsembles(names...)
			if err != nil {
				return nil, err
			}
			pairs[i] = ens
		}
		if spec.Type == schema.MoverHop {
			return movers.NewEnsembleHopMover(pairs, opts...)
		}
		return movers.NewReplicaExchange(pairs, opts...)

	case schema.MoverMinus:
		return movers.NewMinusMove(opts...), nil

	case schema.MoverMixed, schema.MoverSequential, schema.MoverPartialSequential, schema.MoverConditionalSequential:
		subs := make([]movers.PathMover, len(spec.Movers))
		for i, sub := range spec.Movers {
			m, err := c.mover(fmt.Sprintf("%s.movers[%d]", path, i), sub)
			if err != nil {
				return nil, err
			}
			subs[i] = m
		}
		switch spec.Type {
		case schema.MoverMixed:
			return movers.NewMixedMover(subs, spec.Weights, opts...)
		case schema.MoverSequential:
			return movers.NewIndependentSequentialMover(subs, opts...)
		case schema.MoverPartialSequential:
			return movers.NewPartialAcceptanceSequentialMover(subs, opts...)
		default:
			return movers.NewConditionalSequentialMover(subs, opts...)
		}
	}
	return nil, domain.InvalidConfiguration(spec.Name, "mover type %q cannot be compiled", spec.Type)
}

func (c *compiler) initial() (*domain.SampleSet, error) {
	set := domain.NewSampleSet()
	for i, spec := range c.doc.Initial {
		ens, err := c.catalog.Ensembles.Get(spec.Ensemble)
		if err != nil {
			return nil, fmt.Errorf("initial[%d]: %w", i, err)
		}
		traj := toy.Path(spec.Path...)
		if !ens.Contains(traj) {
			return nil, fmt.Errorf("initial[%d]: path of replica %d is not in ensemble %s", i, spec.Replica, spec.Ensemble)
		}
		set.ApplySamples([]domain.Sample{domain.NewSample(spec.Replica, traj, ens)})
	}
	return set, nil
}
