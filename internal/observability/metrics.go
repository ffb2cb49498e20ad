// Package observability provides OpenTelemetry instrumentation for tracing and metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
// The shutdown function should be called on application exit for graceful cleanup.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.Handler(), provider.Shutdown, nil
}

// RunMetrics holds the counters recorded around function runs.
type RunMetrics struct {
	RunsTotal       metric.Int64Counter
	RunsFailed      metric.Int64Counter
	DepsInstalled   metric.Int64Counter
	InstallFailures metric.Int64Counter
}

// NewRunMetrics registers the run counters on the global meter provider.
func NewRunMetrics() (*RunMetrics, error) {
	meter := otel.Meter("funcplane")

	runsTotal, err := meter.Int64Counter("funcplane_runs_total",
		metric.WithDescription("Number of function runs started"))
	if err != nil {
		return nil, err
	}
	runsFailed, err := meter.Int64Counter("funcplane_runs_failed_total",
		metric.WithDescription("Number of function runs that ended FAILED"))
	if err != nil {
		return nil, err
	}
	depsInstalled, err := meter.Int64Counter("funcplane_dependencies_installed_total",
		metric.WithDescription("Number of dependency installations performed"))
	if err != nil {
		return nil, err
	}
	installFailures, err := meter.Int64Counter("funcplane_dependency_install_failures_total",
		metric.WithDescription("Number of dependency installations that failed"))
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RunsTotal:       runsTotal,
		RunsFailed:      runsFailed,
		DepsInstalled:   depsInstalled,
		InstallFailures: installFailures,
	}, nil
}
