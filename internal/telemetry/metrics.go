package telemetry

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"weasel/internal/chromosome"
)

const metricsNamespace = "weasel"

// Metrics records evolution progress on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	generations  prometheus.Counter
	copies       prometheus.Counter
	improvements prometheus.Counter
	runs         *prometheus.CounterVec
	bestFitness  prometheus.Gauge
	size         prometheus.Gauge

	mu      sync.Mutex
	runID   string
	lastFit uint32
}

// NewMetrics creates and registers the evolution metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "generations_total",
			Help:      "Generations completed across all runs",
		}),
		copies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "copies_evaluated_total",
			Help:      "Mutated copies scored; a converging generation stops at the matching copy",
		}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "improvements_total",
			Help:      "Generations whose best fitness dropped below the previous generation",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Finished runs by outcome",
		}, []string{"outcome"}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "best_fitness",
			Help:      "Hamming distance of the current best candidate",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "target_size",
			Help:      "Number of symbols in the target",
		}),
	}
	m.registry.MustRegister(m.generations, m.copies, m.improvements, m.runs, m.bestFitness, m.size)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observer returns a chromosome observer feeding these metrics.
func (m *Metrics) Observer() chromosome.Observer {
	return m.record
}

func (m *Metrics) record(p chromosome.Progress) {
	m.generations.Inc()
	m.copies.Add(float64(p.Evaluated))
	m.bestFitness.Set(float64(p.BestFitness))
	m.size.Set(float64(p.Snapshot.Size()))

	m.mu.Lock()
	defer m.mu.Unlock()
	if p.RunID != m.runID {
		m.runID = p.RunID
		m.lastFit = p.BestFitness
		return
	}
	if p.BestFitness < m.lastFit {
		m.improvements.Inc()
	}
	m.lastFit = p.BestFitness
}

// Outcome labels for RecordRun.
const (
	OutcomeConverged = "converged"
	OutcomeStopped   = "stopped"
)

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(outcome string) {
	m.runs.WithLabelValues(outcome).Inc()
}

// WriteTextfile dumps the registry in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
