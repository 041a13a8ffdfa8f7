package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records subst metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRender records a top-level render with its duration and error status.
	RecordRender(ctx context.Context, duration time.Duration, err error)

	// RecordResolution records one placeholder resolution at the given depth.
	RecordResolution(ctx context.Context, name string, depth int, err error)

	// RecordCycle records a detected placeholder cycle.
	RecordCycle(ctx context.Context, name string)

	// RecordParse records a parse of the given kind ("template" or "path").
	RecordParse(ctx context.Context, kind string, cached bool, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	renders       metric.Int64Counter
	renderLatency metric.Float64Histogram
	renderErrors  metric.Int64Counter
	resolutions   metric.Int64Counter
	resolveDepth  metric.Int64Histogram
	cycles        metric.Int64Counter
	parses        metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("subst")

	renders, err := meter.Int64Counter("subst.render.count",
		metric.WithDescription("Number of top-level renders"),
	)
	if err != nil {
		return nil, err
	}

	renderLatency, err := meter.Float64Histogram("subst.render.latency_ms",
		metric.WithDescription("Render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	renderErrors, err := meter.Int64Counter("subst.render.errors",
		metric.WithDescription("Number of failed renders"),
	)
	if err != nil {
		return nil, err
	}

	resolutions, err := meter.Int64Counter("subst.resolve.count",
		metric.WithDescription("Number of placeholder resolutions"),
	)
	if err != nil {
		return nil, err
	}

	resolveDepth, err := meter.Int64Histogram("subst.resolve.depth",
		metric.WithDescription("Nesting depth of placeholder resolutions"),
	)
	if err != nil {
		return nil, err
	}

	cycles, err := meter.Int64Counter("subst.resolve.cycles",
		metric.WithDescription("Number of detected placeholder cycles"),
	)
	if err != nil {
		return nil, err
	}

	parses, err := meter.Int64Counter("subst.parse.count",
		metric.WithDescription("Number of template parses"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		renders:       renders,
		renderLatency: renderLatency,
		renderErrors:  renderErrors,
		resolutions:   resolutions,
		resolveDepth:  resolveDepth,
		cycles:        cycles,
		parses:        parses,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRender records a render.
func (m *otelMetrics) RecordRender(ctx context.Context, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.renders.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.renderLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if err != nil {
		m.renderErrors.Add(ctx, 1)
	}
}

// RecordResolution records a placeholder resolution.
func (m *otelMetrics) RecordResolution(ctx context.Context, name string, depth int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("name", name),
		attribute.Bool("success", err == nil),
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.resolveDepth.Record(ctx, int64(depth))
}

// RecordCycle records a cycle.
func (m *otelMetrics) RecordCycle(ctx context.Context, name string) {
	m.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("name", name)))
}

// RecordParse records a parse.
func (m *otelMetrics) RecordParse(ctx context.Context, kind string, cached bool, err error) {
	m.parses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("cached", cached),
		attribute.Bool("success", err == nil),
	))
}
