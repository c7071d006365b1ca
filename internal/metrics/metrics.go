// Package metrics exposes Prometheus counters for cleaning activity.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/dataclean/internal/core"
)

const namespace = "dataclean"

// Metrics holds the collectors on a private registry. It implements
// core.Observer.
type Metrics struct {
	registry *prometheus.Registry

	operations     *prometheus.CounterVec
	rowsRemoved    *prometheus.CounterVec
	cellsFilled    prometheus.Counter
	activeSessions prometheus.Gauge
	uploads        *prometheus.CounterVec
}

// New registers the collectors, plus the Go and process collectors, on a new
// registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Workspace operations by action and outcome.",
		}, []string{"action", "outcome"}),
		rowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_removed_total",
			Help:      "Rows removed by applied cleaning operations.",
		}, []string{"action"}),
		cellsFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_filled_total",
			Help:      "Missing cells filled by fill operations.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Live cleaning sessions.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads by file format and outcome.",
		}, []string{"format", "outcome"}),
	}

	m.registry.MustRegister(
		m.operations,
		m.rowsRemoved,
		m.cellsFilled,
		m.activeSessions,
		m.uploads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// OperationCompleted implements core.Observer.
func (m *Metrics) OperationCompleted(_ context.Context, result core.OperationResult) {
	outcome := "applied"
	if !result.Applied {
		outcome = "rejected"
	}
	m.operations.WithLabelValues(string(result.Action), outcome).Inc()

	if !result.Applied {
		return
	}
	if n := result.RowsRemoved(); n > 0 {
		m.rowsRemoved.WithLabelValues(string(result.Action)).Add(float64(n))
	}
	if result.Fill != nil {
		m.cellsFilled.Add(float64(result.Fill.Cells()))
	}
}

// SetActiveSessions updates the session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// UploadFinished counts one upload. outcome is "loaded" or "rejected".
func (m *Metrics) UploadFinished(format, outcome string) {
	if format == "" {
		format = "unknown"
	}
	m.uploads.WithLabelValues(format, outcome).Inc()
}
