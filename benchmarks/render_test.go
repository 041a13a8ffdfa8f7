package benchmarks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/randalmurphal/subst/pkg/subst"
	"github.com/randalmurphal/subst/pkg/subst/expr"
)

// largeTemplate builds a template with n placeholders separated by text.
func largeTemplate(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d: ${v%d} \\$literal\n", i, i%10)
	}
	return b.String()
}

func values() subst.ValueMap {
	m := make(subst.ValueMap, 10)
	for i := 0; i < 10; i++ {
		m[subst.MustName(fmt.Sprintf("v%d", i))] = fmt.Sprintf("value-%d", i)
	}
	return m
}

// BenchmarkParse measures parsing templates of increasing size.
func BenchmarkParse(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		text := largeTemplate(n)
		b.Run(fmt.Sprintf("placeholders_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := subst.Parse(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRender measures rendering a parsed template against fixed values.
func BenchmarkRender(b *testing.B) {
	node := subst.MustParse(largeTemplate(100))
	vals := values()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := subst.Render(io.Discard, node, vals); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngine_Resolve measures resolving a chain of nested templates.
func BenchmarkEngine_Resolve(b *testing.B) {
	for _, depth := range []int{1, 10, 50} {
		templates := map[string]string{"n0": "leaf"}
		for i := 1; i < depth; i++ {
			templates[fmt.Sprintf("n%d", i)] = fmt.Sprintf("(${n%d})", i-1)
		}
		bindings, err := subst.ParseBindings(nil, templates)
		if err != nil {
			b.Fatal(err)
		}
		eng := subst.NewEngine(subst.WithBindings(bindings), subst.WithLogger(nil))
		top := subst.MustName(fmt.Sprintf("n%d", depth-1))
		ctx := context.Background()

		b.Run(fmt.Sprintf("depth_%d", depth), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := eng.Resolve(ctx, top); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEngine_ParseCache compares cached and uncached parse-and-render.
func BenchmarkEngine_ParseCache(b *testing.B) {
	text := largeTemplate(20)
	bindings, _ := subst.TextBindings(map[string]string{
		"v0": "a", "v1": "b", "v2": "c", "v3": "d", "v4": "e",
		"v5": "f", "v6": "g", "v7": "h", "v8": "i", "v9": "j",
	})
	ctx := context.Background()

	for _, size := range []int{0, subst.DefaultCacheSize} {
		eng := subst.NewEngine(subst.WithBindings(bindings), subst.WithCacheSize(size), subst.WithLogger(nil))
		b.Run(fmt.Sprintf("cache_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := eng.ParseAndRenderString(ctx, text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkExpression measures evaluating an expression through the engine.
func BenchmarkExpression(b *testing.B) {
	p := subst.NewParser(subst.WithExpressionParser(expr.Parser))
	bindings, err := subst.ParseBindings(p, map[string]string{"count": "41", "status": "ok"})
	if err != nil {
		b.Fatal(err)
	}
	eng := subst.NewEngine(
		subst.WithParser(p),
		subst.WithBindings(bindings),
		subst.WithEvaluator(expr.New()),
		subst.WithLogger(nil),
	)
	node, err := eng.Parse("${count + 1} ${status == 'ok' and count > 10}")
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.RenderToString(ctx, node); err != nil {
			b.Fatal(err)
		}
	}
}
