package subst

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/subst/pkg/subst/observability"
)

// resolution is the Resolver for one top-level Engine call.
//
// inProgress holds the names currently being resolved, outermost first. It is
// never shared between calls.
type resolution struct {
	engine     *Engine
	ctx        context.Context
	logger     *slog.Logger
	inProgress []Name
	resolved   int
}

var _ Resolver = (*resolution)(nil)

// ResolvePlaceholder renders the template bound to name.
func (r *resolution) ResolvePlaceholder(name Name) (result string, err error) {
	for _, n := range r.inProgress {
		if n == name {
			return "", r.cycle(name)
		}
	}
	if err := r.ctx.Err(); err != nil {
		return "", err
	}

	r.inProgress = append(r.inProgress, name)
	depth := len(r.inProgress)
	defer func() {
		r.inProgress = r.inProgress[:len(r.inProgress)-1]
	}()

	e := r.engine
	observability.LogResolve(r.logger, name.String(), depth)

	if e.tracingEnabled {
		parent := r.ctx
		var span trace.Span
		r.ctx, span = e.spans.StartResolveSpan(parent, name.String(), depth)
		defer func() {
			e.spans.EndSpanWithError(span, err)
			r.ctx = parent
		}()
	}
	defer func() {
		e.metrics.RecordResolution(r.ctx, name.String(), depth, err)
	}()

	node, ok, err := e.bindings.Lookup(name)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", name, err)
	}
	if !ok {
		return "", &MissingValueError{Name: name}
	}

	var b strings.Builder
	if err := Render(&b, node, r); err != nil {
		return "", err
	}
	r.resolved++
	return b.String(), nil
}

// EvaluateExpression passes e to the engine's evaluator with this resolution
// as the placeholder resolver.
func (r *resolution) EvaluateExpression(e Expr) (string, error) {
	if r.engine.evaluator == nil {
		return "", ErrNoEvaluator
	}
	return r.engine.evaluator.Evaluate(e, r.ResolvePlaceholder)
}

func (r *resolution) cycle(name Name) *CycleError {
	chain := make([]Name, len(r.inProgress)+1)
	copy(chain, r.inProgress)
	chain[len(chain)-1] = name

	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.String()
	}
	observability.LogCycle(r.logger, name.String(), names)
	r.engine.metrics.RecordCycle(r.ctx, name.String())

	return &CycleError{Chain: chain}
}
