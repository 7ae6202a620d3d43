// Package metrics counts shots, repetitions and artifacts with Prometheus
// collectors. A batch run has no scrape endpoint, so the registry is written
// once to a textfile for node_exporter's textfile collector.
//
// A nil *Collector is valid; every method is a no-op on a nil receiver.
package metrics

import (
	"fmt"
	"time"

	"github.com/nvandessel/qharness/internal/circuit"
	"github.com/nvandessel/qharness/internal/trial"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "qharness"

// Artifact statuses.
const (
	StatusWritten = "written"
	StatusFailed  = "failed"
)

// Collector owns a private registry with the harness metrics.
type Collector struct {
	registry          *prometheus.Registry
	shots             *prometheus.CounterVec
	repetitions       *prometheus.CounterVec
	artifacts         *prometheus.CounterVec
	repetitionSeconds prometheus.Histogram
}

// New creates a collector. runID is attached to every series as a constant
// label so textfiles from different runs can be told apart.
func New(runID string) *Collector {
	labels := prometheus.Labels{"run_id": runID}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		shots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "shots_total",
				Help:        "Single-shot executions by classified outcome",
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		repetitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "repetitions_total",
				Help:        "Completed repetitions by configuration",
				ConstLabels: labels,
			},
			[]string{"configuration"},
		),
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "artifacts_total",
				Help:        "Per-configuration artifacts by final status",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
		repetitionSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "repetition_duration_seconds",
				Help:        "Wall time of one repetition",
				Buckets:     []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
				ConstLabels: labels,
			},
		),
	}

	c.registry.MustRegister(c.shots, c.repetitions, c.artifacts, c.repetitionSeconds)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveRepetition implements trial.Observer.
func (c *Collector) ObserveRepetition(cfg circuit.Configuration, row trial.AggregateRow, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.shots.WithLabelValues("zero").Add(float64(row.Zeros))
	c.shots.WithLabelValues("one").Add(float64(row.Ones))
	c.shots.WithLabelValues("indeterminate").Add(float64(row.Indeterminate))
	c.repetitions.WithLabelValues(cfg.Name()).Inc()
	c.repetitionSeconds.Observe(elapsed.Seconds())
}

// ObserveArtifact records the final status of one artifact.
func (c *Collector) ObserveArtifact(status string) {
	if c == nil {
		return
	}
	c.artifacts.WithLabelValues(status).Inc()
}

// WriteTextfile writes the registry in text exposition format to path.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
