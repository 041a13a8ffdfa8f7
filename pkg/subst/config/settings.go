package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// ErrInvalidSettings indicates a settings value outside its allowed set.
var ErrInvalidSettings = errors.New("invalid settings")

var (
	lineEndings     = []string{"", "none", "lf", "crlf", "cr"}
	dollarHandlings = []string{"", "reject", "literal", "drop"}
)

const (
	templatesKey     = "templates"
	renderTimeoutKey = "render_timeout"
)

// settingsKeys are the top-level keys Settings accepts.
var settingsKeys = []string{
	"line_ending", "dollar", "cache_size", "metrics", "tracing", renderTimeoutKey, templatesKey,
}

// Settings is the engine configuration read from a file.
//
// Example YAML:
//
//	line_ending: lf
//	dollar: reject
//	cache_size: 256
//	render_timeout: 250ms
//	templates:
//	  greeting: "Hello ${who}"
//	  who: World
type Settings struct {
	// LineEnding is one of none, lf, crlf or cr.
	LineEnding string `json:"line_ending,omitempty" jsonschema:"enum=none,enum=lf,enum=crlf,enum=cr,description=Line ending written by renders"`

	// Dollar is one of reject, literal or drop.
	Dollar string `json:"dollar,omitempty" jsonschema:"enum=reject,enum=literal,enum=drop,description=Treatment of a dollar sign not followed by an opening brace"`

	// CacheSize bounds the parse cache. Zero keeps the engine default.
	CacheSize int `json:"cache_size,omitempty" jsonschema:"minimum=0,description=Number of parsed templates to cache"`

	// Metrics enables OpenTelemetry metrics.
	Metrics bool `json:"metrics,omitempty"`

	// Tracing enables OpenTelemetry spans.
	Tracing bool `json:"tracing,omitempty"`

	// RenderTimeout bounds each top-level render. Zero means no deadline.
	RenderTimeout time.Duration `json:"render_timeout,omitempty" jsonschema:"type=string,description=Deadline for one render such as 250ms"`

	// Templates binds placeholder names to template sources.
	Templates map[string]string `json:"templates,omitempty" jsonschema:"description=Placeholder name to template source"`
}

// Settings extracts and validates engine settings.
// Unknown top-level keys are rejected.
func (c Config) Settings() (Settings, error) {
	for _, key := range slices.Sorted(maps.Keys(c.Raw())) {
		if !slices.Contains(settingsKeys, key) {
			return Settings{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSettings, key)
		}
	}
	if v := c.data[templatesKey]; v != nil && c.StringMap(templatesKey, nil) == nil {
		return Settings{}, fmt.Errorf("%w: templates must map names to strings", ErrInvalidSettings)
	}
	if c.Has(renderTimeoutKey) && c.Duration(renderTimeoutKey, -1) < 0 {
		return Settings{}, fmt.Errorf("%w: render_timeout %v", ErrInvalidSettings, c.data[renderTimeoutKey])
	}

	s := Settings{
		LineEnding: c.String("line_ending", ""),
		Dollar:     c.String("dollar", ""),
		CacheSize:  c.Int("cache_size", 0),
		Metrics:    c.Bool("metrics", false),
		Tracing:    c.Bool("tracing", false),
		Templates:  c.StringMap(templatesKey, nil),

		RenderTimeout: c.Duration(renderTimeoutKey, 0),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the enumerated fields.
func (s Settings) Validate() error {
	if !slices.Contains(lineEndings, strings.ToLower(s.LineEnding)) {
		return fmt.Errorf("%w: line_ending %q", ErrInvalidSettings, s.LineEnding)
	}
	if !slices.Contains(dollarHandlings, strings.ToLower(s.Dollar)) {
		return fmt.Errorf("%w: dollar %q", ErrInvalidSettings, s.Dollar)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size %d", ErrInvalidSettings, s.CacheSize)
	}
	if s.RenderTimeout < 0 {
		return fmt.Errorf("%w: render_timeout %s", ErrInvalidSettings, s.RenderTimeout)
	}
	return nil
}

// SettingsSchema returns the JSON schema describing Settings.
func SettingsSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(&Settings{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings schema: %w", err)
	}
	return data, nil
}
