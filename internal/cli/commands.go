package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/pathsampling/internal/compiler"
	"github.com/aretw0/pathsampling/internal/presentation/graph"
	"github.com/aretw0/pathsampling/pkg/schema"
)

// Validate loads and compiles the document at path without running it.
func Validate(path string) (*compiler.Program, error) {
	doc, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(doc)
}

// Graph renders the mover tree of the document at path as Mermaid.
func Graph(path string) (string, error) {
	prog, err := Validate(path)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(prog.Root, nil), nil
}

// JournalOptions selects what the journal command prints.
type JournalOptions struct {
	RedisURL string
	RunID    string // empty lists runs
	JSON     bool
	Delete   bool
	Stdout   io.Writer
}

// Journal lists the journaled runs, or prints the steps of one run.
func Journal(ctx context.Context, opts JournalOptions) error {
	if opts.RedisURL == "" {
		return fmt.Errorf("the journal lives in redis: pass --redis-url")
	}
	j, err := openJournal(ctx, opts.RedisURL)
	if err != nil {
		return err
	}
	defer j.close()

	if opts.RunID == "" {
		runs, err := j.store.Runs(ctx)
		if err != nil {
			return err
		}
		if opts.JSON {
			return json.NewEncoder(opts.Stdout).Encode(runs)
		}
		for _, id := range runs {
			fmt.Fprintln(opts.Stdout, id)
		}
		return nil
	}

	if opts.Delete {
		if err := j.store.Delete(ctx, opts.RunID); err != nil {
			return err
		}
		printSystemMessage(opts.Stdout, "Deleted run %s.", opts.RunID)
		return nil
	}

	steps, err := j.store.Steps(ctx, opts.RunID)
	if err != nil {
		return err
	}
	if opts.JSON {
		return json.NewEncoder(opts.Stdout).Encode(steps)
	}

	tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tREPLICA\tENSEMBLE\tMOVER\tACCEPTED\tP\tLENGTH")
	for _, step := range steps {
		for _, s := range step.Samples {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%t\t%.3f\t%d\n",
				step.Step, s.Replica, s.Ensemble, s.Mover, s.Accepted, s.Probability, s.Length)
		}
	}
	return tw.Flush()
}
