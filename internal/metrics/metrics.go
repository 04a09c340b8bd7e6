// Package metrics provides Prometheus metrics for partition audits
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"partaudit/internal/domain"
)

// Metrics holds the audit counters. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Stream metrics
	StreamsTotal   *prometheus.CounterVec
	StreamDuration prometheus.Histogram
	LeavesTotal    prometheus.Counter

	// Anomaly metrics
	OutOfOrderTotal prometheus.Counter
	MissingTotal    prometheus.Counter
	PathIssuesTotal *prometheus.CounterVec

	// Run metrics
	RunDurationSeconds prometheus.Gauge
	LastRunTimestamp   prometheus.Gauge
}

// NewMetrics creates the audit metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{Registry: reg}

	m.StreamsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partaudit_streams_total",
			Help: "Total number of streams processed, by outcome",
		},
		[]string{"result"},
	)

	m.StreamDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "partaudit_stream_duration_seconds",
			Help:    "Duration of a single stream audit in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	m.LeavesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "partaudit_leaves_total",
			Help: "Total number of leaf partitions discovered",
		},
	)

	m.OutOfOrderTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "partaudit_out_of_order_total",
			Help: "Total number of partitions flagged as created out of order",
		},
	)

	m.MissingTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "partaudit_missing_partitions_total",
			Help: "Total number of expected minute partitions not found",
		},
	)

	m.PathIssuesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partaudit_path_issues_total",
			Help: "Total number of recovered per-path failures, by stage",
		},
		[]string{"stage"},
	)

	m.RunDurationSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "partaudit_run_duration_seconds",
			Help: "Duration of the last audit run in seconds",
		},
	)

	m.LastRunTimestamp = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "partaudit_last_run_timestamp_seconds",
			Help: "Unix time the last audit run finished",
		},
	)

	return m
}

// RecordStream records one audited stream
func (m *Metrics) RecordStream(report domain.StreamReport) {
	if m == nil {
		return
	}
	if report.Skipped {
		m.StreamsTotal.WithLabelValues("skipped").Inc()
		return
	}
	m.StreamsTotal.WithLabelValues("audited").Inc()
	m.StreamDuration.Observe(report.Duration.Seconds())
	m.LeavesTotal.Add(float64(report.Leaves))
	m.OutOfOrderTotal.Add(float64(len(report.OutOfOrder)))
	m.MissingTotal.Add(float64(len(report.Missing)))
	for _, issue := range report.Issues {
		m.PathIssuesTotal.WithLabelValues(string(issue.Stage)).Inc()
	}
}

func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.StreamsTotal.WithLabelValues("failed").Inc()
}

func (m *Metrics) RecordRun(duration time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.RunDurationSeconds.Set(duration.Seconds())
	m.LastRunTimestamp.Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
