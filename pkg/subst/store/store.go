// Package store persists named template sources.
//
// A Store maps placeholder names to template text. Bindings adapts a Store to
// subst.Bindings so an Engine can resolve placeholders against templates that
// live in SQLite or in memory.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/randalmurphal/subst/pkg/subst"
)

// Store persists template sources by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the source for name, replacing any earlier revision.
	Save(name, source string) error

	// Load retrieves the latest source for name.
	// Returns ErrNotFound if nothing is stored under name.
	Load(name string) (string, error)

	// List returns metadata for every stored template, ordered by name.
	// Returns an empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a template.
	// Returns nil if nothing is stored under name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the source.
type Info struct {
	Name string
	// Revision starts at 1 and increases on every Save of the same name.
	Revision    int
	Timestamp   time.Time
	Size        int64
	Fingerprint uint64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no template is stored under a name.
	ErrNotFound = errors.New("template not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("template store closed")

	// ErrInvalidName indicates a name that is not a valid placeholder name.
	ErrInvalidName = errors.New("invalid template name")
)

// validateName checks that name can be referenced from a template.
func validateName(name string) error {
	if _, err := subst.NewName(name); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidName, name, err)
	}
	return nil
}

// Fingerprint hashes template source text.
func Fingerprint(source string) uint64 {
	return xxhash.Sum64String(source)
}
