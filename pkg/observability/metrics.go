package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tps"

// Metrics holds the collectors fed by lifecycle events.
type Metrics struct {
	trials       *prometheus.CounterVec
	probability  *prometheus.HistogramVec
	trialLength  *prometheus.HistogramVec
	steps        *prometheus.CounterVec
	stepDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "move_trials_total",
			Help:      "Decided trials per mover and verdict.",
		}, []string{"mover", "verdict"}),
		probability: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "acceptance_probability",
			Help:      "Acceptance probability used by each decided trial.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"mover"}),
		trialLength: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_length_frames",
			Help:      "Number of frames of proposed trial trajectories.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
		}, []string{"mover"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Monte Carlo steps completed by the driver.",
		}, []string{"accepted"}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall time of one Monte Carlo step.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.trials, m.probability, m.trialLength, m.steps, m.stepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrialProposed: func(_ context.Context, e *domain.MoveEvent) {
			m.trialLength.WithLabelValues(e.Mover).Observe(float64(e.TrialLength))
		},
		OnMoveDecided: func(_ context.Context, e *domain.MoveEvent) {
			m.trials.WithLabelValues(e.Mover, string(e.Verdict)).Inc()
			m.probability.WithLabelValues(e.Mover).Observe(e.Probability)
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			accepted := "false"
			if e.Record.Accepted() {
				accepted = "true"
			}
			m.steps.WithLabelValues(accepted).Inc()
			m.stepDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
