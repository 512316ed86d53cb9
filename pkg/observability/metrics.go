// Package observability exposes Prometheus metrics for the workflow engine
// through its lifecycle hooks.
package observability

import (
	"context"

	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates workflow counters and timings. Wire it into an engine
// with Hooks().
type Metrics struct {
	stepVisits   *prometheus.CounterVec
	stepErrors   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec
}

// NewMetrics creates the metric set and registers it on the given
// registerer (pass prometheus.DefaultRegisterer for the global one).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_step_visits_total",
				Help: "Total number of workflow step executions",
			},
			[]string{"step"},
		),
		stepErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_step_errors_total",
				Help: "Workflow steps that left an error on the envelope",
			},
			[]string{"step", "kind"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "orderflow_step_duration_seconds",
				Help: "Duration of workflow step executions",
			},
			[]string{"step"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_tool_calls_total",
				Help: "Tool invocations made during cancellation loops",
			},
			[]string{"tool", "outcome"},
		),
	}
	reg.MustRegister(m.stepVisits, m.stepErrors, m.stepDuration, m.toolCalls)
	return m
}

// Hooks returns lifecycle hooks that feed this metric set.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			m.stepVisits.WithLabelValues(e.Step).Inc()
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			// EnteredAt travels on the leave event itself; correlating
			// enter and leave by order ID would miss the intake step,
			// which assigns the ID mid-step.
			if !e.EnteredAt.IsZero() {
				m.stepDuration.WithLabelValues(e.Step).Observe(e.Timestamp.Sub(e.EnteredAt).Seconds())
			}
			if e.ErrorKind != "" {
				m.stepErrors.WithLabelValues(e.Step, string(e.ErrorKind)).Inc()
			}
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			outcome := "success"
			if e.IsError {
				outcome = "error"
			}
			m.toolCalls.WithLabelValues(e.ToolName, outcome).Inc()
		},
	}
}
