package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// Registry maps names to values. It is used by the config compiler to
// resolve volumes, ensembles and selectors by name.
type Registry[T any] struct {
	mu    sync.RWMutex
	kind  string
	items map[string]T
}

// New creates a new empty registry. kind names the values in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Register adds a value under name.
// Registering the same name twice is an error.
func (r *Registry[T]) Register(name string, v T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%s %q already registered", r.kind, name)
	}
	r.items[name] = v
	return nil
}

// Get looks up a value by name.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	v, ok := r.items[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%s not found: %s", r.kind, name)
	}
	return v, nil
}

// Names returns the registered names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Catalog groups the registries a mover tree is compiled against.
type Catalog struct {
	Volumes   *Registry[domain.Volume]
	Ensembles *Registry[domain.Ensemble]
	Selectors *Registry[ports.ShootingPointSelector]
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Volumes:   New[domain.Volume]("volume"),
		Ensembles: New[domain.Ensemble]("ensemble"),
		Selectors: New[ports.ShootingPointSelector]("selector"),
	}
}

// LookupEnsembles resolves several ensemble names at once.
func (c *Catalog) LookupEnsembles(names ...string) ([]domain.Ensemble, error) {
	out := make([]domain.Ensemble, 0, len(names))
	for _, name := range names {
		e, err := c.Ensembles.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
