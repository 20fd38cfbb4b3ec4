package movers

import (
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// OneWayShootingSet builds one mixed forward/backward shooting mover per
// interface ensemble, each restricted to its ensemble. A single selector is
// shared by every interface; otherwise there must be one per interface.
// opts are applied to every mover built.
func OneWayShootingSet(engine ports.DynamicsEngine, selectors []ports.ShootingPointSelector, interfaces []domain.Ensemble, opts ...Option) ([]PathMover, error) {
	const name = "one_way_shooting_set"
	switch {
	case len(selectors) == 1:
		shared := selectors[0]
		selectors = make([]ports.ShootingPointSelector, len(interfaces))
		for i := range selectors {
			selectors[i] = shared
		}
	case len(selectors) != len(interfaces):
		return nil, domain.InvalidConfiguration(name, "%d selectors for %d interfaces", len(selectors), len(interfaces))
	}

	out := make([]PathMover, 0, len(interfaces))
	for i, ens := range interfaces {
		restrict := func(mover string) []Option {
			return append(append([]Option(nil), opts...),
				WithEnsembles(Ensembles(ens)),
				WithName(fmt.Sprintf("%s[%s]", mover, domain.NameOf(ens))),
			)
		}
		fwd := NewForwardShootMover(engine, selectors[i], restrict("forward_shoot")...)
		bwd := NewBackwardShootMover(engine, selectors[i], restrict("backward_shoot")...)
		mixed, err := NewMixedMover([]PathMover{fwd, bwd}, nil, restrict("one_way_shooting")...)
		if err != nil {
			return nil, err
		}
		out = append(out, mixed)
	}
	return out, nil
}

// TwoWayShootingSet is not implemented.
func TwoWayShootingSet() ([]PathMover, error) {
	return nil, fmt.Errorf("two-way shooting set: %w", domain.ErrIncompleteMove)
}

// NearestNeighborRepExSet is not implemented.
func NearestNeighborRepExSet() ([]PathMover, error) {
	return nil, fmt.Errorf("nearest-neighbor replica exchange set: %w", domain.ErrIncompleteMove)
}
