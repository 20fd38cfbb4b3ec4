package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/pathsampling"
	"github.com/aretw0/pathsampling/internal/compiler"
	"github.com/aretw0/pathsampling/internal/presentation/tui"
	httpadapter "github.com/aretw0/pathsampling/pkg/adapters/http"
	"github.com/aretw0/pathsampling/pkg/observability"
	"github.com/aretw0/pathsampling/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ConfigPath string

	// Steps and Seed override the document when set.
	Steps   int
	Seed    uint64
	SeedSet bool

	RunID string
	Fresh bool // delete the journal of RunID before starting

	Every    int // progress line frequency; 0 hides progress
	Quiet    bool
	Debug    bool
	LogLevel string
	JSONLogs bool
	Trace    bool // export step spans to stderr

	RedisURL string
	HTTPAddr string
	Linger   bool // keep the HTTP API up after the run until interrupted

	LockTTL time.Duration

	Stdout io.Writer
	Stderr io.Writer
}

// Execute loads, compiles and runs a document.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.LockTTL == 0 {
		opts.LockTTL = time.Minute
	}

	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	doc, err := schema.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.SeedSet {
		doc.Seed = opts.Seed
	}
	steps := doc.Steps
	if opts.Steps > 0 {
		steps = opts.Steps
	}
	if steps <= 0 {
		return fmt.Errorf("no steps to run: set steps in %s or pass --steps", opts.ConfigPath)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(observability.LoggingHooks(logger))
	}

	prog, err := compiler.Compile(doc,
		compiler.WithLogger(logger),
		compiler.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return err
	}

	j, err := openJournal(ctx, opts.RedisURL)
	if err != nil {
		return err
	}
	defer j.close()

	simOpts := []pathsampling.Option{
		pathsampling.WithLogger(logger),
		pathsampling.WithStepStore(j.store),
		pathsampling.WithRunID(opts.RunID),
	}
	if j.locker != nil {
		simOpts = append(simOpts, pathsampling.WithRunLocker(j.locker, opts.LockTTL))
	}
	if opts.Trace {
		tracer, shutdown, err := setupTracing(opts.Stderr)
		if err != nil {
			return err
		}
		defer shutdown(context.WithoutCancel(ctx))
		simOpts = append(simOpts, pathsampling.WithTracer(tracer))
	}

	if opts.HTTPAddr != "" {
		live := newLiveGraph(prog.Root)
		api := httpadapter.NewServer(j.store,
			httpadapter.WithGatherer(reg),
			httpadapter.WithGraph(live.Render),
			httpadapter.WithVersion(pathsampling.Version),
			httpadapter.WithLogger(logger),
		)
		hooks = hooks.Merge(api.Hooks()).Merge(live.Hooks())

		stop, err := serve(opts.HTTPAddr, api, logger)
		if err != nil {
			return err
		}
		defer stop()
		if !opts.Quiet {
			printSystemMessage(opts.Stdout, "Monitoring API on http://%s", opts.HTTPAddr)
		}
	}
	simOpts = append(simOpts, pathsampling.WithLifecycleHooks(hooks))

	sim, err := pathsampling.New(prog.Root, prog.Initial, simOpts...)
	if err != nil {
		return err
	}

	if opts.Fresh && opts.RunID != "" {
		if err := j.store.Delete(ctx, sim.RunID()); err != nil {
			return fmt.Errorf("reset run %s: %w", sim.RunID(), err)
		}
	}

	runner := pathsampling.NewRunner(opts.Stdout)
	runner.Every = opts.Every
	if opts.Quiet {
		runner.Every = 0
	}
	if width, ok := terminalWidth(opts.Stdout); ok {
		if !opts.Quiet {
			tui.PrintBanner(opts.Stdout, pathsampling.Version)
		}
		runner.Renderer = tui.NewRenderer(width)
	}

	if !opts.Quiet {
		printSystemMessage(opts.Stdout, "Run %s: %d steps of %s (seed %d)", sim.RunID(), steps, prog.Root.Name(), doc.Seed)
	}
	logger.Info("run started", "run_id", sim.RunID(), "steps", steps, "seed", doc.Seed)

	runErr := runner.Run(ctx, sim, steps)
	logger.Info("run finished", "run_id", sim.RunID(), "steps", sim.Steps(), "error", runErr)

	if !opts.Quiet {
		switch {
		case runErr == nil:
			printSystemMessage(opts.Stdout, "Finished %d steps.", sim.Steps())
		case isInterrupted(runErr):
			printSystemMessage(opts.Stdout, "Interrupted after %d steps.", sim.Steps())
		}
	}

	if opts.HTTPAddr != "" && opts.Linger && runErr == nil {
		if !opts.Quiet {
			printSystemMessage(opts.Stdout, "Run finished. API still available. Press Ctrl+C to exit.")
		}
		<-ctx.Done()
	}

	return handleExecutionError(runErr)
}

// serve starts the API in the background. The returned func shuts it down.
func serve(addr string, handler http.Handler, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("monitoring API stopped", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "error", err)
			srv.Close()
		}
	}, nil
}

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return width, true
}
