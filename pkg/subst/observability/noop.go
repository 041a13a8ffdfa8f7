package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordRender does nothing.
func (NoopMetrics) RecordRender(_ context.Context, _ time.Duration, _ error) {}

// RecordResolution does nothing.
func (NoopMetrics) RecordResolution(_ context.Context, _ string, _ int, _ error) {}

// RecordCycle does nothing.
func (NoopMetrics) RecordCycle(_ context.Context, _ string) {}

// RecordParse does nothing.
func (NoopMetrics) RecordParse(_ context.Context, _ string, _ bool, _ error) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartRenderSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRenderSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartResolveSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartResolveSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
