package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "omi_mentor"

var (
	snapshotGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "fitness",
		Name:      "last_snapshot_timestamp_seconds",
		Help:      "Unix timestamp of the most recent fitness snapshot held by the refresher.",
	})
	fetchCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fitness",
		Name:      "fetches_total",
		Help:      "Snapshot fetches by trigger (background, manual) and outcome.",
	}, []string{"trigger", "outcome"})
	fallbackCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "fitness",
		Name:      "fallback_values_total",
		Help:      "Metrics filled from the local generator instead of the provider.",
	}, []string{"metric"})
	tokenRefreshCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "oauth",
		Name:      "token_refreshes_total",
		Help:      "Access token refresh requests by outcome.",
	}, []string{"outcome"})
	alertCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "health",
		Name:      "alerts_total",
		Help:      "Health alert dispatch attempts by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(snapshotGauge, fetchCounter, fallbackCounter, tokenRefreshCounter, alertCounter)
}

// RecordSnapshot updates the snapshot watermark.
func RecordSnapshot(ts time.Time) {
	if ts.IsZero() {
		return
	}
	snapshotGauge.Set(float64(ts.Unix()))
}

func RecordFetch(trigger string, err error) {
	fetchCounter.WithLabelValues(trigger, outcome(err)).Inc()
}

func RecordFallback(metric string) {
	fallbackCounter.WithLabelValues(metric).Inc()
}

func RecordTokenRefresh(err error) {
	tokenRefreshCounter.WithLabelValues(outcome(err)).Inc()
}

func RecordAlert(sent bool) {
	if sent {
		alertCounter.WithLabelValues("sent").Inc()
		return
	}
	alertCounter.WithLabelValues("dropped").Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
