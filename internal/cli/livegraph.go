package cli

import (
	"context"
	"sync"

	"github.com/aretw0/pathsampling/internal/presentation/graph"
	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/movers"
)

// liveGraph renders the mover tree with the acceptance rates seen so far.
// It is fed by step hooks and read by API requests, so it keeps its own
// counts instead of reading the simulation.
type liveGraph struct {
	root movers.PathMover

	mu       sync.Mutex
	trials   map[string]int
	accepted map[string]int
	current  string
}

func newLiveGraph(root movers.PathMover) *liveGraph {
	return &liveGraph{
		root:     root,
		trials:   make(map[string]int),
		accepted: make(map[string]int),
	}
}

func (g *liveGraph) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			g.mu.Lock()
			defer g.mu.Unlock()
			for _, s := range e.Record.Samples {
				g.trials[s.Mover]++
				if s.Accepted {
					g.accepted[s.Mover]++
				}
				g.current = s.Mover
			}
		},
	}
}

func (g *liveGraph) Render() string {
	g.mu.Lock()
	overlay := &graph.Overlay{
		Rates:   make(map[string]float64, len(g.trials)),
		Current: g.current,
	}
	for name, n := range g.trials {
		overlay.Rates[name] = float64(g.accepted[name]) / float64(n)
	}
	g.mu.Unlock()

	return graph.GenerateMermaid(g.root, overlay)
}
