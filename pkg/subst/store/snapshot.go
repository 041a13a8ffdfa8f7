package store

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SnapshotVersion is the current snapshot format version.
// Increment when making breaking changes to the snapshot structure.
const SnapshotVersion = 1

// Snapshot is a portable copy of every template in a store.
type Snapshot struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Templates []Record  `json:"templates"`
}

// Record is one template in a Snapshot.
type Record struct {
	Name        string `json:"name"`
	Revision    int    `json:"revision"`
	Fingerprint uint64 `json:"fingerprint"`
	Source      string `json:"source"`
}

// Export writes every template in s to w as a JSON snapshot.
func Export(s Store, w io.Writer) error {
	infos, err := s.List()
	if err != nil {
		return err
	}

	snap := Snapshot{
		Version:   SnapshotVersion,
		Timestamp: time.Now().UTC(),
		Templates: make([]Record, 0, len(infos)),
	}
	for _, info := range infos {
		source, err := s.Load(info.Name)
		if err != nil {
			return fmt.Errorf("export %s: %w", info.Name, err)
		}
		snap.Templates = append(snap.Templates, Record{
			Name:        info.Name,
			Revision:    info.Revision,
			Fingerprint: Fingerprint(source),
			Source:      source,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Import saves every template of the snapshot read from r into s.
// Records whose fingerprint does not match their source are rejected before
// anything is saved.
func Import(s Store, r io.Reader) (int, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return 0, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	for _, rec := range snap.Templates {
		if Fingerprint(rec.Source) != rec.Fingerprint {
			return 0, fmt.Errorf("import %s: fingerprint mismatch", rec.Name)
		}
	}

	for i, rec := range snap.Templates {
		if err := s.Save(rec.Name, rec.Source); err != nil {
			return i, fmt.Errorf("import %s: %w", rec.Name, err)
		}
	}
	return len(snap.Templates), nil
}
