package subst

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/subst/pkg/subst/config"
	"github.com/randalmurphal/subst/pkg/subst/observability"
)

// NewEngineFromSettings builds an Engine from loaded settings.
// opts are applied after the settings and can override them.
//
// Example:
//
//	cfg, _ := config.FromFile("subst.yaml")
//	settings, _ := cfg.Settings()
//	eng, err := subst.NewEngineFromSettings(settings, subst.WithLogger(logger))
func NewEngineFromSettings(s config.Settings, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	le, ok := ParseLineEnding(s.LineEnding)
	if !ok {
		return nil, fmt.Errorf("%w: line_ending %q", config.ErrInvalidSettings, s.LineEnding)
	}
	dollar, ok := ParseDollarHandling(s.Dollar)
	if !ok {
		return nil, fmt.Errorf("%w: dollar %q", config.ErrInvalidSettings, s.Dollar)
	}

	parser := NewParser(WithDollarHandling(dollar))
	bindings, err := ParseBindings(parser, s.Templates)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithParser(parser),
		WithBindings(bindings),
		WithLineEnding(le),
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
	}
	if s.CacheSize > 0 {
		base = append(base, WithCacheSize(s.CacheSize))
	}
	if s.RenderTimeout > 0 {
		base = append(base, WithTimeout(s.RenderTimeout))
	}
	return NewEngine(append(base, opts...)...), nil
}

// LoadEngine reads settings from a YAML, JSON or TOML file and builds an Engine.
func LoadEngine(path string, opts ...Option) (*Engine, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewEngineFromSettings(settings, opts...)
}

// WatchEngine rebuilds an Engine each time the settings file at path changes
// and hands it to apply. A reload that fails is logged and skipped, leaving
// the caller's current engine in place. It blocks until ctx is done.
func WatchEngine(ctx context.Context, path string, logger *slog.Logger, apply func(*Engine), opts ...Option) error {
	return config.Watch(ctx, path, func(cfg config.Config, err error) {
		if err == nil {
			var settings config.Settings
			if settings, err = cfg.Settings(); err == nil {
				var eng *Engine
				if eng, err = NewEngineFromSettings(settings, opts...); err == nil {
					apply(eng)
				}
			}
		}
		observability.LogReload(logger, path, err)
	})
}
