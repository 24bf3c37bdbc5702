// Package metrics defines the Prometheus collectors for the subscription pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for SubscriptionsTotal.
const (
	OutcomeRegistered = "registered"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
)

// Metrics provides observability for the subscription pipeline.
// Tracks registration outcomes, welcome email failures and request duration.
type Metrics struct {
	SubscriptionsTotal  *prometheus.CounterVec
	NotificationsFailed prometheus.Counter
	SubscribeDuration   prometheus.Histogram
}

// New creates a Metrics instance registered on reg. Passing a fresh registry
// per test keeps collectors isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubscriptionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsletter_subscriptions_total",
			Help: "Total number of subscription requests by outcome",
		}, []string{"outcome"}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsletter_notifications_failed_total",
			Help: "Total number of welcome emails that could not be delivered",
		}),
		SubscribeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsletter_subscribe_duration_seconds",
			Help:    "Duration of subscription requests, from validation through the welcome email",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementOutcome records one finished subscription request.
func (m *Metrics) IncrementOutcome(outcome string) {
	m.SubscriptionsTotal.WithLabelValues(outcome).Inc()
}

// IncrementNotificationFailed records a welcome email that was not delivered.
func (m *Metrics) IncrementNotificationFailed() {
	m.NotificationsFailed.Inc()
}

// ObserveSubscribe records the duration of a subscription request.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSubscribe(start time.Time) {
	m.SubscribeDuration.Observe(time.Since(start).Seconds())
}
