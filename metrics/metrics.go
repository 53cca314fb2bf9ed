// Package metrics exposes Prometheus instrumentation for the catalog backend
// and the standalone metrics HTTP server the API server runs alongside itself.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the Prometheus registry on its own listen address.
type MetricsServer struct {
	srv      *http.Server
	registry *prometheus.Registry

	// CatalogOps counts catalog operations by collection, operation and
	// outcome.
	CatalogOps *prometheus.CounterVec

	// ResolveAttempts counts per-endpoint resolution attempts by outcome.
	ResolveAttempts *prometheus.CounterVec

	// ActiveTier reports the selected degradation tier (1 network, 2 memory,
	// 3 static).
	ActiveTier prometheus.Gauge
}

// New builds the registry, registers the collectors and prepares the server.
// The server does not listen until ListenAndServe.
func New(name, addr string) (*MetricsServer, error) {
	// Metric namespaces cannot carry dashes.
	name = strings.ReplaceAll(name, "-", "_")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricsServer{
		registry: registry,
		CatalogOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: name,
			Name:      "catalog_operations_total",
			Help:      "Catalog operations by collection, operation and outcome.",
		}, []string{"collection", "operation", "outcome"}),
		ResolveAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: name,
			Name:      "resolve_attempts_total",
			Help:      "Pointer resolution attempts by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ActiveTier: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: name,
			Name:      "active_tier",
			Help:      "Selected catalog degradation tier.",
		}),
	}
	registry.MustRegister(m.CatalogOps, m.ResolveAttempts, m.ActiveTier)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.srv = &http.Server{Addr: addr, Handler: mux}

	return m, nil
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
