package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// CommandMetrics records ledger command executions and account gauges.
type CommandMetrics struct {
	duration    *prometheus.HistogramVec
	outcomes    *prometheus.CounterVec
	balance     prometheus.Gauge
	outstanding prometheus.Gauge
	pending     prometheus.Gauge
}

// NewCommandMetrics registers the command metrics on the provided registerer.
func NewCommandMetrics(reg prometheus.Registerer) *CommandMetrics {
	if reg == nil {
		return &CommandMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_command_duration_seconds",
		Help:    "Duration of ledger commands including load and save.",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_command_total",
		Help: "Ledger command executions by outcome.",
	}, []string{"command", "outcome"})
	balance := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_balance_cents",
		Help: "Spendable balance after the last applied command.",
	})
	outstanding := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_outstanding_cents",
		Help: "Outstanding repayment across approved requests.",
	})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_pending_requests",
		Help: "Requests awaiting a guardian decision.",
	})
	reg.MustRegister(duration, outcomes, balance, outstanding, pending)
	return &CommandMetrics{
		duration:    duration,
		outcomes:    outcomes,
		balance:     balance,
		outstanding: outstanding,
		pending:     pending,
	}
}

// ObserveDuration records the duration for the named command.
func (c *CommandMetrics) ObserveDuration(command string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(command)).Observe(duration.Seconds())
}

// IncOutcome increments the outcome counter for the named command.
func (c *CommandMetrics) IncOutcome(command, outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(command), normalizeLabel(outcome)).Inc()
}

// SetAccount publishes the current account figures.
func (c *CommandMetrics) SetAccount(balance, outstanding int64, pending int) {
	if c == nil || c.balance == nil {
		return
	}
	c.balance.Set(float64(balance))
	c.outstanding.Set(float64(outstanding))
	c.pending.Set(float64(pending))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
