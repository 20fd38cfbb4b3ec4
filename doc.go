/*
Package pathsampling runs transition path sampling simulations.

A simulation holds one active sample per replica: a trajectory and the path
ensemble it belongs to. Each Monte Carlo step hands that global state to a
root path mover (see pkg/movers), which proposes trial trajectories, accepts
or rejects them, and returns new samples. The simulation applies them,
journals a step record, and moves on.

# Usage

	root, _ := movers.NewMixedMover(shooters, nil, movers.WithSeed(42))
	initial := domain.NewSampleSet(domain.NewSample(0, path, tis0))

	sim, err := pathsampling.New(root, initial,
		pathsampling.WithStepStore(memory.NewStore()),
		pathsampling.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := sim.Run(ctx, 1000); err != nil {
		log.Fatal(err)
	}
	fmt.Print(pathsampling.Report(sim.Stats()))

Runs are usually described in a YAML or JSON document and started with the
tps command (cmd/tps), which compiles the document into a mover tree, a toy
Langevin engine and an initial sample set.
*/
package pathsampling
