package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/subst/pkg/subst"
	"github.com/randalmurphal/subst/pkg/subst/observability"
	"github.com/randalmurphal/subst/pkg/subst/registry"
)

// DefaultNodeCacheSize bounds the parsed templates kept by Bindings.
const DefaultNodeCacheSize = 256

// StoreBindings resolves placeholder names against a Store.
//
// Every lookup loads the current source, so saved revisions take effect
// immediately. Parsed nodes are cached by source fingerprint; a hit is only
// used when its source is identical.
type StoreBindings struct {
	store       Store
	parser      *subst.Parser
	nodes       *registry.Registry[uint64, parsedSource]
	fingerprint func(string) uint64
	logger      *slog.Logger
}

// parsedSource is a node cache entry.
type parsedSource struct {
	source string
	node   subst.Node
}

var _ subst.Bindings = (*StoreBindings)(nil)

// BindingsOption configures StoreBindings.
type BindingsOption func(*StoreBindings)

// WithParser sets the parser for stored sources.
func WithParser(p *subst.Parser) BindingsOption {
	return func(b *StoreBindings) {
		if p != nil {
			b.parser = p
		}
	}
}

// WithNodeCacheSize bounds the parsed node cache. Zero or less disables it.
func WithNodeCacheSize(n int) BindingsOption {
	return func(b *StoreBindings) {
		if n <= 0 {
			b.nodes = nil
			return
		}
		b.nodes = registry.New[uint64, parsedSource](n)
	}
}

// WithLogger sets the logger for store failures. Nil disables logging.
func WithLogger(logger *slog.Logger) BindingsOption {
	return func(b *StoreBindings) {
		b.logger = logger
	}
}

// Bindings adapts s to subst.Bindings.
func Bindings(s Store, opts ...BindingsOption) *StoreBindings {
	b := &StoreBindings{
		store:       s,
		parser:      subst.NewParser(),
		nodes:       registry.New[uint64, parsedSource](DefaultNodeCacheSize),
		fingerprint: Fingerprint,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Lookup implements subst.Bindings.
func (b *StoreBindings) Lookup(name subst.Name) (subst.Node, bool, error) {
	source, err := b.store.Load(name.String())
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		observability.LogStoreError(b.logger, name.String(), "load", err)
		return nil, false, err
	}

	node, err := b.parse(source)
	if err != nil {
		observability.LogStoreError(b.logger, name.String(), "parse", err)
		return nil, false, fmt.Errorf("template %s: %w", name, err)
	}
	return node, true, nil
}

func (b *StoreBindings) parse(source string) (subst.Node, error) {
	if b.nodes == nil {
		return b.parser.ParseString(source)
	}
	entry, _, err := b.nodes.GetOrCreate(b.fingerprint(source), func() (parsedSource, error) {
		node, err := b.parser.ParseString(source)
		return parsedSource{source: source, node: node}, err
	})
	if err != nil {
		return nil, err
	}
	if entry.source != source {
		// Fingerprint collision: the slot belongs to another source.
		return b.parser.ParseString(source)
	}
	return entry.node, nil
}

// SaveChecked parses source before saving it, so a broken template is never
// stored.
func SaveChecked(s Store, p *subst.Parser, name, source string) error {
	if p == nil {
		p = subst.NewParser()
	}
	if _, err := p.ParseString(source); err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}
	return s.Save(name, source)
}
