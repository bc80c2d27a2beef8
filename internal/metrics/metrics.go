// Package metrics exposes Prometheus counters for the ledger engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ledger holds the counters updated by the ledger and the notifier.
type Ledger struct {
	registry *prometheus.Registry

	Contributions        prometheus.Counter
	ContributedAmount    prometheus.Counter
	Payouts              prometheus.Counter
	PaidOutAmount        prometheus.Counter
	FundedCycles         prometheus.Counter
	Rejections           *prometheus.CounterVec
	Inconsistencies      prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationsFailed  prometheus.Counter
	NotificationsDropped prometheus.Counter
}

// New registers the ledger counters on a fresh registry.
func New() *Ledger {
	reg := prometheus.NewRegistry()
	m := &Ledger{
		registry: reg,
		Contributions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_contributions_total",
			Help: "Paid contributions recorded.",
		}),
		ContributedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_contributed_minor_units_total",
			Help: "Sum of contributed amounts in minor currency units.",
		}),
		Payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_payouts_total",
			Help: "Payouts claimed.",
		}),
		PaidOutAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_paid_out_minor_units_total",
			Help: "Sum of payouts in minor currency units.",
		}),
		FundedCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_cycles_funded_total",
			Help: "Cycles that reached full funding.",
		}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circle_ledger_rejections_total",
			Help: "Ledger operations rejected by a precondition.",
		}, []string{"operation", "reason"}),
		Inconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_ledger_inconsistencies_total",
			Help: "Circle wallet balance found below the required payout.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_notifications_sent_total",
			Help: "Events delivered by the notifier.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_notifications_failed_total",
			Help: "Events the notifier gave up on after retries.",
		}),
		NotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "circle_notifications_dropped_total",
			Help: "Events dropped because the notifier queue was full.",
		}),
	}

	reg.MustRegister(
		m.Contributions, m.ContributedAmount, m.Payouts, m.PaidOutAmount, m.FundedCycles,
		m.Rejections, m.Inconsistencies, m.NotificationsSent, m.NotificationsFailed, m.NotificationsDropped,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
