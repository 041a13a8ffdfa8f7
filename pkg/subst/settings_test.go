package subst_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/subst/pkg/subst"
	"github.com/randalmurphal/subst/pkg/subst/config"
)

func TestLoadEngine(t *testing.T) {
	dir := t.TempDir()

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "subst.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
line_ending = "lf"

[templates]
greeting = "Hello ${who}"
who = "TOML"
`), 0o644))

		eng, err := subst.LoadEngine(path, subst.WithLogger(nil))
		require.NoError(t, err)
		out, err := eng.Resolve(context.Background(), subst.MustName("greeting"))
		require.NoError(t, err)
		assert.Equal(t, "Hello TOML", out)
	})

	t.Run("invalid settings", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("line_ending: sideways\n"), 0o644))

		_, err := subst.LoadEngine(path)
		assert.ErrorIs(t, err, config.ErrInvalidSettings)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := subst.LoadEngine(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestWatchEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subst.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  who: one\n"), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	engines := make(chan *subst.Engine, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- subst.WatchEngine(ctx, path, logger, func(e *subst.Engine) { engines <- e }, subst.WithLogger(nil))
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// Keep rewriting until the watcher is running and sees a change.
	for {
		select {
		case eng := <-engines:
			// A reload can observe a half-written file.
			out, err := eng.Resolve(context.Background(), subst.MustName("who"))
			if err != nil || out != "two" {
				continue
			}
			cancel()
			assert.ErrorIs(t, <-done, context.Canceled)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("templates:\n  who: two\n"), 0o644))
		case <-deadline:
			t.Fatalf("no reload observed; logs: %s", logs.String())
		}
	}
}
