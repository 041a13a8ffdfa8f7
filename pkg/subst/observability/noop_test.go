package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordRender(ctx, time.Second, errors.New("x"))
		m.RecordResolution(ctx, "a", 1, nil)
		m.RecordCycle(ctx, "a")
		m.RecordParse(ctx, "template", true, nil)
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	gotCtx, span := sm.StartRenderSpan(ctx, "r")
	assert.Equal(t, ctx, gotCtx)
	assert.False(t, span.IsRecording())

	gotCtx, span = sm.StartResolveSpan(ctx, "a", 1)
	assert.Equal(t, ctx, gotCtx)
	assert.False(t, span.IsRecording())

	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("x"))
		sm.AddSpanEvent(ctx, "event")
	})
}
