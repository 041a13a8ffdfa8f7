package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("subst")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("subst")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartRenderSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := StartRenderSpan(context.Background(), "render-123")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "subst.render", spans[0].Name)
	assert.Equal(t, "render-123", attrMap(spans[0].Attributes)["render.id"].AsString())
}

func TestStartResolveSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, parent := StartRenderSpan(context.Background(), "render-1")
	_, child := StartResolveSpan(ctx, "greeting", 2)
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	resolve := spans[0]
	assert.Equal(t, "subst.resolve", resolve.Name)
	attrs := attrMap(resolve.Attributes)
	assert.Equal(t, "greeting", attrs["placeholder.name"].AsString())
	assert.Equal(t, int64(2), attrs["placeholder.depth"].AsInt64())
	assert.Equal(t, spans[1].SpanContext.SpanID(), resolve.Parent.SpanID())
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, ok := StartRenderSpan(context.Background(), "ok")
	EndSpanWithError(ok, nil)

	_, failed := StartRenderSpan(context.Background(), "failed")
	EndSpanWithError(failed, errors.New("cycle detected"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "cycle detected", spans[1].Status.Description)
	require.NotEmpty(t, spans[1].Events)
	assert.Equal(t, "exception", spans[1].Events[0].Name)

	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := StartRenderSpan(context.Background(), "r")
	AddSpanEvent(ctx, "cache.hit", attribute.String("source", "${a}"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "cache.hit", spans[0].Events[0].Name)

	assert.NotPanics(t, func() { AddSpanEvent(context.Background(), "orphan") })
}

func TestSpanManager(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, render := sm.StartRenderSpan(context.Background(), "r")
	_, resolve := sm.StartResolveSpan(ctx, "a", 1)
	sm.AddSpanEvent(ctx, "note")
	sm.EndSpanWithError(resolve, nil)
	sm.EndSpanWithError(render, nil)

	assert.Len(t, exporter.GetSpans(), 2)
}
