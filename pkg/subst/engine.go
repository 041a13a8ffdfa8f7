package subst

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/subst/pkg/subst/observability"
	"github.com/randalmurphal/subst/pkg/subst/registry"
)

// DefaultCacheSize is the number of parsed sources an Engine keeps by default.
const DefaultCacheSize = 512

// Engine parses templates and renders them against Bindings with cycle
// detection.
//
// Every top-level call (Render, RenderToString, ParseAndRender,
// ParseAndRenderString, Resolve) gets its own in-progress stack, so an Engine
// is safe for concurrent use once constructed.
type Engine struct {
	parser     *Parser
	bindings   Bindings
	evaluator  Evaluator
	lineEnding LineEnding
	cache      *registry.Registry[string, Node]
	timeout    time.Duration

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithParser sets the parser used by Parse and ParseAndRender.
//
// Default: NewParser()
func WithParser(p *Parser) Option {
	return func(e *Engine) {
		if p != nil {
			e.parser = p
		}
	}
}

// WithParserOptions builds the engine's parser from opts.
func WithParserOptions(opts ...ParserOption) Option {
	return func(e *Engine) {
		e.parser = NewParser(opts...)
	}
}

// WithBindings sets the templates placeholders resolve to.
// Without bindings every placeholder is a MissingValueError.
func WithBindings(b Bindings) Option {
	return func(e *Engine) {
		e.bindings = b
	}
}

// WithEvaluator sets the evaluator for Expression nodes.
// Without one, rendering an expression fails with ErrNoEvaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// WithLineEnding sets the line ending written by every render.
//
// Default: LineEndingNone
func WithLineEnding(le LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = le
	}
}

// WithCacheSize bounds the parse cache. Zero or less disables caching.
//
// Default: DefaultCacheSize
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			e.cache = nil
			return
		}
		e.cache = registry.New[string, Node](n)
	}
}

// WithTimeout bounds every top-level call. The deadline is checked before
// each placeholder resolution. Zero or less means no deadline.
//
// Default: 0
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLogger sets the logger. A nil logger disables logging.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
//
// Default: false
func WithMetrics(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.metrics = observability.NewMetricsRecorder()
		} else {
			e.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables or disables OpenTelemetry spans.
//
// Default: false
func WithTracing(enabled bool) Option {
	return func(e *Engine) {
		e.tracingEnabled = enabled
		if enabled {
			e.spans = observability.NewSpanManager()
		} else {
			e.spans = observability.NoopSpanManager{}
		}
	}
}

// NewEngine creates an Engine with the given options.
//
// Example:
//
//	b, _ := subst.ParseBindings(nil, map[string]string{
//	    "greeting": "Hello ${who}",
//	    "who":      "World",
//	})
//	eng := subst.NewEngine(subst.WithBindings(b))
//	out, err := eng.ParseAndRenderString(ctx, "${greeting}!")
//	// out: "Hello World!"
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		parser:   defaultParser,
		bindings: MapBindings{},
		cache:    registry.New[string, Node](DefaultCacheSize),
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bindings == nil {
		e.bindings = MapBindings{}
	}
	return e
}

// Parser returns the engine's parser.
func (e *Engine) Parser() *Parser {
	return e.parser
}

// LineEnding returns the configured line ending.
func (e *Engine) LineEnding() LineEnding {
	return e.lineEnding
}

// Parse parses text with the engine's parser. Results are cached by source.
func (e *Engine) Parse(text string) (Node, error) {
	ctx := context.Background()
	if e.cache == nil {
		node, err := e.parser.ParseString(text)
		e.metrics.RecordParse(ctx, "template", false, err)
		if err != nil {
			observability.LogParseError(e.logger, text, err)
		}
		return node, err
	}

	node, cached, err := e.cache.GetOrCreate(text, func() (Node, error) {
		return e.parser.ParseString(text)
	})
	e.metrics.RecordParse(ctx, "template", cached, err)
	if err != nil {
		observability.LogParseError(e.logger, text, err)
		return nil, err
	}
	return node, nil
}

// Render writes the rendered text of node to w.
func (e *Engine) Render(ctx context.Context, w io.Writer, node Node) error {
	return e.run(ctx, func(r *resolution) error {
		lw := NewLineEndingWriter(w, e.lineEnding)
		if err := Render(lw, node, r); err != nil {
			return err
		}
		return lw.Flush()
	})
}

// RenderToString renders node and returns the result.
func (e *Engine) RenderToString(ctx context.Context, node Node) (string, error) {
	var b strings.Builder
	if err := e.Render(ctx, &b, node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseAndRender parses the rest of c and renders it to w.
// Nothing is written if parsing fails.
func (e *Engine) ParseAndRender(ctx context.Context, c *Cursor, w io.Writer) error {
	node, err := e.parser.Parse(c)
	e.metrics.RecordParse(ctx, "template", false, err)
	if err != nil {
		observability.LogParseError(e.logger, c.Text(), err)
		return err
	}
	return e.Render(ctx, w, node)
}

// ParseAndRenderString parses text, using the cache, and renders it.
func (e *Engine) ParseAndRenderString(ctx context.Context, text string) (string, error) {
	node, err := e.Parse(text)
	if err != nil {
		return "", err
	}
	return e.RenderToString(ctx, node)
}

// Resolve renders the template bound to name.
func (e *Engine) Resolve(ctx context.Context, name Name) (string, error) {
	var b strings.Builder
	err := e.run(ctx, func(r *resolution) error {
		s, err := r.ResolvePlaceholder(name)
		if err != nil {
			return err
		}
		lw := NewLineEndingWriter(&b, e.lineEnding)
		if _, err := io.WriteString(lw, s); err != nil {
			return err
		}
		return lw.Flush()
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// run wraps one top-level call with a fresh resolution and observability.
func (e *Engine) run(ctx context.Context, fn func(*resolution) error) (runErr error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	renderID := uuid.New().String()
	logger := observability.EnrichLogger(e.logger, renderID)
	start := time.Now()

	observability.LogRenderStart(logger, renderID)

	var span trace.Span
	if e.tracingEnabled {
		ctx, span = e.spans.StartRenderSpan(ctx, renderID)
		defer func() {
			e.spans.EndSpanWithError(span, runErr)
		}()
	}

	r := &resolution{engine: e, ctx: ctx, logger: logger}
	runErr = fn(r)

	duration := time.Since(start)
	durationMs := float64(duration.Microseconds()) / 1000
	e.metrics.RecordRender(ctx, duration, runErr)

	if runErr != nil {
		observability.LogRenderError(logger, renderID, runErr, durationMs)
	} else {
		observability.LogRenderComplete(logger, renderID, durationMs, r.resolved)
	}
	return runErr
}
