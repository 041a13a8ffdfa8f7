// Package observability provides logging, metrics and tracing helpers for
// subst engines.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Every helper accepts a nil logger, and NoopMetrics/NoopSpanManager stand in
// when metrics or tracing are disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds the render ID to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "3f1c...")
//	enriched.Debug("resolving") // includes render_id
func EnrichLogger(logger *slog.Logger, renderID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("render_id", renderID))
}

// LogRenderStart logs the start of a top-level render.
func LogRenderStart(logger *slog.Logger, renderID string) {
	if logger == nil {
		return
	}
	logger.Debug("render starting",
		slog.String("render_id", renderID),
	)
}

// LogRenderComplete logs successful render completion.
func LogRenderComplete(logger *slog.Logger, renderID string, durationMs float64, resolutions int) {
	if logger == nil {
		return
	}
	logger.Debug("render completed",
		slog.String("render_id", renderID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("resolutions", resolutions),
	)
}

// LogRenderError logs a failed render.
func LogRenderError(logger *slog.Logger, renderID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("render failed",
		slog.String("render_id", renderID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogResolve logs a placeholder resolution at the given nesting depth.
func LogResolve(logger *slog.Logger, name string, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("resolving placeholder",
		slog.String("name", name),
		slog.Int("depth", depth),
	)
}

// LogCycle logs a detected placeholder cycle.
func LogCycle(logger *slog.Logger, name string, chain []string) {
	if logger == nil {
		return
	}
	logger.Warn("placeholder cycle detected",
		slog.String("name", name),
		slog.Any("chain", chain),
	)
}

// LogParseError logs a template that failed to parse.
func LogParseError(logger *slog.Logger, source string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template parse failed",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}

// LogStoreError logs a failed template store operation.
func LogStoreError(logger *slog.Logger, name string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("template store failed",
		slog.String("name", name),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogReload logs a configuration reload.
func LogReload(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("config reload failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("config reloaded",
		slog.String("path", path),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
