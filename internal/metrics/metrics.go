// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "classificacao"

var (
	registerOnce sync.Once

	lookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of name lookups by kind (name, criteria, batch, compare, suggest)",
	}, []string{"kind"})
	lookupFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_failed_total",
		Help:      "Total number of name lookups that returned an error by kind",
	}, []string{"kind"})
	lookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Histogram of lookup durations in seconds by kind",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms up to ~4s
	}, []string{"kind"})
	lookupMatches = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_matches",
		Help:      "Number of records returned per lookup by kind",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
	}, []string{"kind"})

	emailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmation_emails_total",
		Help:      "Confirmation emails by outcome (sent, failed, disabled)",
	}, []string{"outcome"})
	authEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication events by type and outcome",
	}, []string{"event", "outcome"})
	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-IP rate limiter by route scope",
	}, []string{"scope"})

	contestsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "contests",
		Help:      "Current number of contests",
	})
	resultsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "results",
		Help:      "Current number of classification results",
	})
	usersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users",
		Help:      "Current number of registered users",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(lookupTotal, lookupFailed, lookupDuration, lookupMatches,
			emailsTotal, authEvents, rateLimited, contestsGauge, resultsGauge, usersGauge)
	})
}

// Lookup helpers
func IncLookup(kind string)       { lookupTotal.WithLabelValues(kind).Inc() }
func IncLookupFailed(kind string) { lookupFailed.WithLabelValues(kind).Inc() }
func ObserveLookupDuration(kind string, d time.Duration) {
	lookupDuration.WithLabelValues(kind).Observe(d.Seconds())
}
func ObserveLookupMatches(kind string, n int) { lookupMatches.WithLabelValues(kind).Observe(float64(n)) }

// Email outcomes
const (
	EmailSent     = "sent"
	EmailFailed   = "failed"
	EmailDisabled = "disabled"
)

func IncEmail(outcome string) { emailsTotal.WithLabelValues(outcome).Inc() }

// IncAuthEvent records e.g. ("login", "success") or ("register", "duplicate").
func IncAuthEvent(event, outcome string) { authEvents.WithLabelValues(event, outcome).Inc() }

func IncRateLimited(scope string) { rateLimited.WithLabelValues(scope).Inc() }

// Gauges
func SetContests(n int) { contestsGauge.Set(float64(n)) }
func SetResults(n int)  { resultsGauge.Set(float64(n)) }
func SetUsers(n int)    { usersGauge.Set(float64(n)) }
