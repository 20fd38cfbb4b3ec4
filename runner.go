package pathsampling

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Runner drives a Simulation and reports progress to Output.
type Runner struct {
	Output io.Writer

	// Every prints a progress line each Every steps. Zero disables progress.
	Every int

	// Renderer transforms the final markdown report, e.g. into ANSI.
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
type ContentRenderer func(string) (string, error)

// NewRunner creates a runner that prints every step to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{Output: out, Every: 1}
}

// Run performs n steps of sim, then prints the acceptance report. The
// report is printed even when a step fails.
func (r *Runner) Run(ctx context.Context, sim *Simulation, n int) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	target := sim.Steps() + n
	var runErr error
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		rec, err := sim.Step(ctx)
		if err != nil {
			runErr = err
			break
		}
		if r.Every > 0 && (rec.Step%r.Every == 0 || i == n-1) {
			fmt.Fprintf(r.Output, "step %d/%d mover=%s accepted=%t", rec.Step, target, rec.Mover, rec.Accepted())
			if rec.Changed != nil && len(rec.Changed.Moved) > 0 {
				fmt.Fprintf(r.Output, " moved=%v", rec.Changed.Moved)
			}
			fmt.Fprintln(r.Output)
		}
	}

	report := Report(sim.Stats())
	if r.Renderer != nil {
		if rendered, err := r.Renderer(report); err == nil {
			report = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimRight(report, "\n"))
	return runErr
}

// Report formats acceptance statistics as a markdown table sorted by mover.
func Report(stats map[string]MoverStats) string {
	var sb strings.Builder
	sb.WriteString("| mover | trials | accepted | rate |\n")
	sb.WriteString("|---|---:|---:|---:|\n")
	for _, name := range slices.Sorted(maps.Keys(stats)) {
		st := stats[name]
		fmt.Fprintf(&sb, "| %s | %d | %d | %.3f |\n", name, st.Trials, st.Accepted, st.Rate())
	}
	return sb.String()
}
