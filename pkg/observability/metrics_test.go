package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsMoveEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.Emit(ctx, &domain.MoveEvent{Phase: domain.PhaseProposed, Mover: "shoot", TrialLength: 12})
	hooks.Emit(ctx, &domain.MoveEvent{Phase: domain.PhaseAccepted, Mover: "shoot", Verdict: domain.VerdictAccepted, Probability: 1})
	hooks.Emit(ctx, &domain.MoveEvent{Phase: domain.PhaseRejected, Mover: "shoot", Verdict: domain.VerdictRejected, Probability: 0.2})
	hooks.Emit(ctx, &domain.MoveEvent{Phase: domain.PhaseAccepted, Mover: "reversal", Verdict: domain.VerdictAccepted, Probability: 1})

	expected := `
# HELP tps_move_trials_total Decided trials per mover and verdict.
# TYPE tps_move_trials_total counter
tps_move_trials_total{mover="reversal",verdict="accepted"} 1
tps_move_trials_total{mover="shoot",verdict="accepted"} 1
tps_move_trials_total{mover="shoot",verdict="rejected"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "tps_move_trials_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "tps_acceptance_probability"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "tps_trial_length_frames"))
}

func TestMetrics_RecordsSteps(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	accepted := domain.StepRecord{Step: 1, Samples: []domain.SampleRecord{{Accepted: true}}}
	rejected := domain.StepRecord{Step: 2, Samples: []domain.SampleRecord{{Accepted: false}}}
	hooks.OnStep(context.Background(), &domain.StepEvent{Record: accepted, Duration: time.Millisecond})
	hooks.OnStep(context.Background(), &domain.StepEvent{Record: rejected, Duration: time.Millisecond})
	hooks.OnStep(context.Background(), &domain.StepEvent{Record: rejected, Duration: time.Millisecond})

	expected := `
# HELP tps_steps_total Monte Carlo steps completed by the driver.
# TYPE tps_steps_total counter
tps_steps_total{accepted="false"} 2
tps_steps_total{accepted="true"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "tps_steps_total"))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m.Hooks().Emit(context.Background(), &domain.MoveEvent{Phase: domain.PhaseAccepted, Mover: "hop", Verdict: domain.VerdictAccepted, Probability: 1})

	rec := httptest.NewRecorder()
	observability.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tps_move_trials_total{mover="hop",verdict="accepted"} 1`)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)

	hooks.Emit(context.Background(), &domain.MoveEvent{Phase: domain.PhaseRejected, Mover: "shoot", Verdict: domain.VerdictRejected})
	hooks.OnStep(context.Background(), &domain.StepEvent{RunID: "run-1", Record: domain.StepRecord{Step: 3, Mover: "root"}})

	out := buf.String()
	assert.Contains(t, out, "move_decided")
	assert.Contains(t, out, "verdict=rejected")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "step=3")
}
