package pathsampling_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/pathsampling"
	"github.com/aretw0/pathsampling/pkg/adapters/memory"
	"github.com/aretw0/pathsampling/pkg/adapters/toy"
	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ensemble"
	"github.com/aretw0/pathsampling/pkg/movers"
	"github.com/aretw0/pathsampling/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func fiveFrames() (domain.Ensemble, *domain.SampleSet) {
	ens := ensemble.NewLength(5)
	initial := domain.NewSampleSet(domain.NewSample(0, toy.Path(0, 1, 2, 3, 4), ens))
	return ens, initial
}

func TestNew_Validation(t *testing.T) {
	_, initial := fiveFrames()

	_, err := pathsampling.New(nil, initial)
	assert.Error(t, err)

	_, err = pathsampling.New(movers.NewPathReversalMover(), domain.NewSampleSet())
	assert.Error(t, err)

	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial)
	require.NoError(t, err)
	assert.NotEmpty(t, sim.RunID())
	assert.Equal(t, 0, sim.Steps())
}

func TestSimulation_Step(t *testing.T) {
	_, initial := fiveFrames()
	store := memory.NewStore()

	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial,
		pathsampling.WithStepStore(store),
		pathsampling.WithRunID("run-1"),
	)
	require.NoError(t, err)

	rec, err := sim.Step(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Step)
	assert.Equal(t, "reversal", rec.Mover)
	require.Len(t, rec.Samples, 1)
	assert.True(t, rec.Accepted())
	require.NotNil(t, rec.Changed)
	assert.Equal(t, []int{0}, rec.Changed.Moved)

	current, ok := sim.State().Sample(0)
	require.True(t, ok)
	assert.Equal(t, 4.0, toy.Position(current.Trajectory.First()))

	// The caller's set is not touched.
	original, _ := initial.Sample(0)
	assert.Equal(t, 0.0, toy.Position(original.Trajectory.First()))

	assert.Equal(t, map[string]pathsampling.MoverStats{"reversal": {Trials: 1, Accepted: 1}}, sim.Stats())

	steps, err := store.Steps(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, rec.Step, steps[0].Step)
}

func TestSimulation_Run(t *testing.T) {
	_, initial := fiveFrames()
	var events []*domain.StepEvent

	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial,
		pathsampling.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(_ context.Context, e *domain.StepEvent) { events = append(events, e) },
		}),
	)
	require.NoError(t, err)

	n, err := sim.Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, sim.Steps())

	require.Len(t, events, 4)
	assert.Equal(t, sim.RunID(), events[3].RunID)
	assert.Equal(t, 4, events[3].Record.Step)

	// Two reversals give back the initial path.
	final, _ := sim.State().Sample(0)
	start, _ := initial.Sample(0)
	assert.True(t, final.Trajectory.Equal(start.Trajectory))
}

func TestSimulation_StepError(t *testing.T) {
	_, initial := fiveFrames()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	sim, err := pathsampling.New(movers.NewMinusMove(), initial, pathsampling.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = sim.Step(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIncompleteMove))
	assert.Equal(t, 0, sim.Steps())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pathsampling.Step", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestSimulation_StepSpan(t *testing.T) {
	_, initial := fiveFrames()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial, pathsampling.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)
	_, err = sim.Run(context.Background(), 2)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)

	attrs := make(map[string]any)
	for _, kv := range spans[1].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(2), attrs["step"])
	assert.Equal(t, true, attrs["accepted"])
}

func TestSimulation_RunCanceled(t *testing.T) {
	_, initial := fiveFrames()
	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := sim.Run(ctx, 10)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeLocker struct {
	keys     []string
	released int
	err      error
}

func (l *fakeLocker) Lock(_ context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

func TestSimulation_RunLocker(t *testing.T) {
	_, initial := fiveFrames()
	locker := &fakeLocker{}

	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial,
		pathsampling.WithRunID("locked"),
		pathsampling.WithRunLocker(locker, time.Second),
	)
	require.NoError(t, err)

	_, err = sim.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"locked"}, locker.keys)
	assert.Equal(t, 1, locker.released)

	locker.err = errors.New("busy")
	n, err := sim.Run(context.Background(), 2)
	assert.Equal(t, 0, n)
	assert.ErrorContains(t, err, "busy")
}

func TestRunner(t *testing.T) {
	_, initial := fiveFrames()
	sim, err := pathsampling.New(movers.NewPathReversalMover(), initial)
	require.NoError(t, err)

	var out bytes.Buffer
	r := pathsampling.NewRunner(&out)
	r.Every = 2
	require.NoError(t, r.Run(context.Background(), sim, 3))

	text := out.String()
	assert.NotContains(t, text, "step 1/3")
	assert.Contains(t, text, "step 2/3 mover=reversal accepted=true moved=[0]")
	assert.Contains(t, text, "step 3/3")
	assert.Contains(t, text, "| reversal | 3 | 3 | 1.000 |")
}

func TestRunner_ReportsOnFailure(t *testing.T) {
	_, initial := fiveFrames()
	sim, err := pathsampling.New(movers.NewMinusMove(), initial)
	require.NoError(t, err)

	var out bytes.Buffer
	r := pathsampling.NewRunner(&out)
	r.Renderer = func(s string) (string, error) { return "REPORT\n" + s, nil }

	err = r.Run(context.Background(), sim, 3)
	assert.ErrorIs(t, err, domain.ErrIncompleteMove)
	assert.Contains(t, out.String(), "REPORT")
}

func TestReport(t *testing.T) {
	report := pathsampling.Report(map[string]pathsampling.MoverStats{
		"b": {Trials: 4, Accepted: 1},
		"a": {Trials: 0},
	})
	assert.Equal(t, "| mover | trials | accepted | rate |\n"+
		"|---|---:|---:|---:|\n"+
		"| a | 0 | 0 | 0.000 |\n"+
		"| b | 4 | 1 | 0.250 |\n", report)
}
