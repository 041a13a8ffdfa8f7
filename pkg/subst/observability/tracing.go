package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("subst")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRenderSpan starts a span for a top-level render.
	StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span)

	// StartResolveSpan starts a span for one placeholder resolution.
	// It should be a child of the render span.
	StartResolveSpan(ctx context.Context, name string, depth int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRenderSpan starts a span for a top-level render.
func (m *otelSpanManager) StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span) {
	return StartRenderSpan(ctx, renderID)
}

// StartResolveSpan starts a span for one placeholder resolution.
func (m *otelSpanManager) StartResolveSpan(ctx context.Context, name string, depth int) (context.Context, trace.Span) {
	return StartResolveSpan(ctx, name, depth)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartRenderSpan starts a render span on the global tracer.
func StartRenderSpan(ctx context.Context, renderID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "subst.render",
		trace.WithAttributes(
			attribute.String("render.id", renderID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartResolveSpan starts a resolve span on the global tracer.
func StartResolveSpan(ctx context.Context, name string, depth int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "subst.resolve",
		trace.WithAttributes(
			attribute.String("placeholder.name", name),
			attribute.Int("placeholder.depth", depth),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
