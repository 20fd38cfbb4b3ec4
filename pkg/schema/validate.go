package schema

import (
	"fmt"
	"maps"
	"slices"
)

// Validate cross-checks the references of a decoded document: every name
// must resolve, names must be unique, and each mover type must carry the
// fields it needs. All failures are returned as one *AggregateError.
func Validate(doc *Document) error {
	v := &validator{
		volumes:   make(map[string]bool),
		ensembles: make(map[string]bool),
		selectors: make(map[string]bool),
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Volumes)) {
		r := doc.Volumes[name]
		v.volumes[name] = true
		if r.Min >= r.Max {
			v.fail(fmt.Sprintf("volumes.%s", name), "min must be below max", fmt.Sprintf("[%g, %g)", r.Min, r.Max))
		}
	}

	for i, e := range doc.Ensembles {
		key := fmt.Sprintf("ensembles[%d]", i)
		if v.ensembles[e.Name] {
			v.fail(key+".name", "duplicate ensemble", e.Name)
		}
		v.ensembles[e.Name] = true
		switch e.Type {
		case EnsembleInterface:
			v.volume(key+".state_a", e.StateA)
			v.volume(key+".state_b", e.StateB)
			v.volume(key+".interface", e.Interface)
		case EnsembleAllIn, EnsembleAllOut:
			v.volume(key+".volume", e.Volume)
		case EnsembleLength:
			if e.Length <= 0 {
				v.fail(key+".length", "must be positive", e.Length)
			}
		}
	}

	for i, s := range doc.Selectors {
		key := fmt.Sprintf("selectors[%d]", i)
		if v.selectors[s.Name] {
			v.fail(key+".name", "duplicate selector", s.Name)
		}
		v.selectors[s.Name] = true
		if s.Type == SelectorGaussian && s.Width <= 0 {
			v.fail(key+".width", "gaussian selector needs a positive width", s.Width)
		}
	}

	v.mover("mover", doc.Mover)

	seen := make(map[int]bool)
	for i, in := range doc.Initial {
		key := fmt.Sprintf("initial[%d]", i)
		if seen[in.Replica] {
			v.fail(key+".replica", "duplicate replica", in.Replica)
		}
		seen[in.Replica] = true
		v.ensemble(key+".ensemble", in.Ensemble)
	}

	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	volumes   map[string]bool
	ensembles map[string]bool
	selectors map[string]bool
	errs      []error
}

func (v *validator) fail(key, reason string, value any) {
	v.errs = append(v.errs, &ValidationError{Key: key, Reason: reason, Value: value})
}

func (v *validator) volume(key, name string) {
	if name == "" {
		v.fail(key, "required", nil)
	} else if !v.volumes[name] {
		v.fail(key, "unknown volume", name)
	}
}

func (v *validator) ensemble(key, name string) {
	if !v.ensembles[name] {
		v.fail(key, "unknown ensemble", name)
	}
}

func (v *validator) mover(key string, m MoverSpec) {
	for i, name := range m.Ensembles {
		v.ensemble(fmt.Sprintf("%s.ensembles[%d]", key, i), name)
	}
	for i, pair := range m.Pairs {
		for j, name := range pair {
			v.ensemble(fmt.Sprintf("%s.pairs[%d][%d]", key, i, j), name)
		}
	}

	switch m.Type {
	case MoverForwardShoot, MoverBackwardShoot, MoverOneWayShooting:
		switch {
		case m.Selector == "":
			v.fail(key+".selector", "required", nil)
		case !v.selectors[m.Selector]:
			v.fail(key+".selector", "unknown selector", m.Selector)
		}
		if m.Type == MoverOneWayShooting && len(m.Ensembles) == 0 {
			v.fail(key+".ensembles", "one-way shooting needs at least one ensemble", nil)
		}
	case MoverHop, MoverExchange:
		if len(m.Pairs) == 0 {
			v.fail(key+".pairs", "required", nil)
		}
	case MoverReplicaIDChange:
		v.fail(key+".type", "replica_id_change needs recorded samples and cannot be configured", m.Type)
	}

	if m.IsComposite() {
		if len(m.Movers) == 0 {
			v.fail(key+".movers", "composite mover needs sub-movers", nil)
		}
		if m.Weights != nil && m.Type != MoverMixed {
			v.fail(key+".weights", "only mixed movers take weights", m.Weights)
		}
	} else if len(m.Movers) > 0 {
		v.fail(key+".movers", "leaf mover cannot hold sub-movers", m.Type)
	}

	if slices.ContainsFunc(m.Replicas, func(r int) bool { return r < 0 }) {
		v.fail(key+".replicas", "replica ids must not be negative", m.Replicas)
	}

	for i, sub := range m.Movers {
		v.mover(fmt.Sprintf("%s.movers[%d]", key, i), sub)
	}
}
