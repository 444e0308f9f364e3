// Package metrics exposes Prometheus collectors for the posting pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidatesSampledTotal  prometheus.Counter
	candidatesRejectedTotal *prometheus.CounterVec
	candidatesAcceptedTotal prometheus.Counter
	capturesTotal           *prometheus.CounterVec
	captureDurationSeconds  prometheus.Histogram
	degenerateFramesTotal   prometheus.Counter
	postsTotal              *prometheus.CounterVec
	lastPostTimestamp       prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		candidatesSampledTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streetlens_candidates_sampled_total",
				Help: "Total number of camera candidates drawn from the pool.",
			},
		)

		candidatesRejectedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streetlens_candidates_rejected_total",
				Help: "Total number of rejected candidates, labeled by reason.",
			},
			[]string{"reason"},
		)

		candidatesAcceptedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streetlens_candidates_accepted_total",
				Help: "Total number of candidates that passed the validity filter.",
			},
		)

		capturesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streetlens_captures_total",
				Help: "Total number of image capture attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		captureDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "streetlens_capture_duration_seconds",
				Help:    "Histogram of image download durations.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		degenerateFramesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "streetlens_degenerate_frames_total",
				Help: "Total number of captured frames rejected as solid-color placeholders.",
			},
		)

		postsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "streetlens_posts_total",
				Help: "Total number of publish attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		lastPostTimestamp = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "streetlens_last_post_timestamp_seconds",
				Help: "Unix time of the most recent successful post.",
			},
		)
	})
}

// RecordCandidateSampled counts one candidate draw.
func RecordCandidateSampled() {
	if candidatesSampledTotal != nil {
		candidatesSampledTotal.Inc()
	}
}

// RecordCandidateRejected counts one rejected candidate by reason.
func RecordCandidateRejected(reason string) {
	if candidatesRejectedTotal != nil {
		candidatesRejectedTotal.WithLabelValues(reason).Inc()
	}
}

// RecordCandidateAccepted counts one accepted candidate.
func RecordCandidateAccepted() {
	if candidatesAcceptedTotal != nil {
		candidatesAcceptedTotal.Inc()
	}
}

// RecordCapture counts one capture attempt and observes its duration.
func RecordCapture(outcome string, seconds float64) {
	if capturesTotal != nil {
		capturesTotal.WithLabelValues(outcome).Inc()
	}
	if captureDurationSeconds != nil {
		captureDurationSeconds.Observe(seconds)
	}
}

// RecordDegenerateFrame counts one solid-color rejection.
func RecordDegenerateFrame() {
	if degenerateFramesTotal != nil {
		degenerateFramesTotal.Inc()
	}
}

// RecordPost counts one publish attempt by outcome.
func RecordPost(outcome string) {
	if postsTotal != nil {
		postsTotal.WithLabelValues(outcome).Inc()
	}
}

// SetLastPostTime records when the most recent post succeeded.
func SetLastPostTime(t time.Time) {
	if lastPostTimestamp != nil {
		lastPostTimestamp.Set(float64(t.Unix()))
	}
}
