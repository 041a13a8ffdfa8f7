package store_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/subst/pkg/subst/store"
)

func TestExportImport(t *testing.T) {
	src := store.NewMemoryStore()
	require.NoError(t, src.Save("greeting", "Hello ${name}"))
	require.NoError(t, src.Save("name", "World"))

	var buf bytes.Buffer
	require.NoError(t, store.Export(src, &buf))

	var snap store.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, store.SnapshotVersion, snap.Version)
	require.Len(t, snap.Templates, 2)
	assert.Equal(t, "greeting", snap.Templates[0].Name)

	dst := store.NewMemoryStore()
	n, err := store.Import(dst, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := dst.Load("greeting")
	require.NoError(t, err)
	assert.Equal(t, "Hello ${name}", got)
}

func TestImport_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"bad json", "{", "decode snapshot"},
		{"version", `{"version": 2, "templates": []}`, "unsupported snapshot version 2"},
		{
			"fingerprint",
			`{"version": 1, "templates": [{"name": "a", "fingerprint": 1, "source": "x"}]}`,
			"import a: fingerprint mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := store.NewMemoryStore()
			n, err := store.Import(dst, strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Zero(t, n)
			assert.Zero(t, dst.Len())
		})
	}
}
