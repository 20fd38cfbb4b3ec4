// Package toy provides a seeded Langevin engine on a 1D double well. It has
// no physical ambitions; it exists so mover trees can be run end to end.
package toy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

var _ ports.DynamicsEngine = (*Engine)(nil)

// Config holds the integrator parameters.
type Config struct {
	DT          float64 `mapstructure:"dt" json:"dt" yaml:"dt"`
	Gamma       float64 `mapstructure:"gamma" json:"gamma" yaml:"gamma"`
	Temperature float64 `mapstructure:"temperature" json:"temperature" yaml:"temperature"`
	MaxLength   int     `mapstructure:"max_length" json:"max_length" yaml:"max_length"`
}

// DefaultConfig returns parameters that cross the barrier in a few hundred
// frames.
func DefaultConfig() Config {
	return Config{DT: 0.01, Gamma: 1.0, Temperature: 0.2, MaxLength: 500}
}

// Engine integrates dx = v dt, dv = (-U'(x) - gamma v) dt + sqrt(2 gamma T dt) N(0,1)
// on U(x) = (x^2 - 1)^2.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithSeed seeds the thermostat noise.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, ^seed))
	}
}

// WithRand injects the noise source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine validates cfg and creates an engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	switch {
	case cfg.DT <= 0:
		return nil, fmt.Errorf("toy engine: dt must be positive, got %g", cfg.DT)
	case cfg.Gamma < 0:
		return nil, fmt.Errorf("toy engine: gamma must not be negative, got %g", cfg.Gamma)
	case cfg.Temperature < 0:
		return nil, fmt.Errorf("toy engine: temperature must not be negative, got %g", cfg.Temperature)
	case cfg.MaxLength < 3:
		return nil, fmt.Errorf("toy engine: max_length must be at least 3, got %d", cfg.MaxLength)
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e, nil
}

// MaxLength returns the configured trajectory cap.
func (e *Engine) MaxLength() int { return e.cfg.MaxLength }

// Force is -U'(x).
func Force(x float64) float64 {
	return -4 * x * (x*x - 1)
}

// Generate integrates from start while every predicate holds. It never
// returns more than MaxLength frames.
func (e *Engine) Generate(ctx context.Context, start domain.Snapshot, running ...domain.RunningPredicate) (domain.Trajectory, error) {
	s, ok := start.(Snapshot)
	if !ok {
		return domain.Trajectory{}, fmt.Errorf("toy engine: unsupported snapshot %T", start)
	}

	frames := []domain.Snapshot{s}
	noise := math.Sqrt(2 * e.cfg.Gamma * e.cfg.Temperature * e.cfg.DT)
	for len(frames) < e.cfg.MaxLength {
		if len(frames)%64 == 0 {
			if err := ctx.Err(); err != nil {
				return domain.Trajectory{}, err
			}
		}
		if !keepRunning(domain.NewTrajectory(frames...), running) {
			break
		}
		s = e.step(s, noise)
		frames = append(frames, s)
	}
	e.logger.Debug("generated", "frames", len(frames))
	return domain.NewTrajectory(frames...), nil
}

func (e *Engine) step(s Snapshot, noise float64) Snapshot {
	dt := e.cfg.DT
	v := s.V + (Force(s.X)-e.cfg.Gamma*s.V)*dt + noise*e.rng.NormFloat64()
	return Snapshot{X: s.X + v*dt, V: v}
}

func keepRunning(partial domain.Trajectory, running []domain.RunningPredicate) bool {
	for _, keep := range running {
		if !keep(partial) {
			return false
		}
	}
	return true
}
