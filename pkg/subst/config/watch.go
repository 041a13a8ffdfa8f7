package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a config file whenever it is written or replaced.
type Watcher struct {
	path     string
	onChange func(Config, error)
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching path. onChange receives every reload result,
// including load failures and watcher errors, and is called from Run's goroutine.
//
// The parent directory is watched rather than the file so that editors which
// save by rename are still seen.
func NewWatcher(path string, onChange func(Config, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{path: path, onChange: onChange, watcher: fw}, nil
}

// Run delivers reloads until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.onChange(FromFile(w.path))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onChange(Config{}, fmt.Errorf("watch %s: %w", w.path, err))
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Watch is NewWatcher followed by Run. It blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	w, err := NewWatcher(path, onChange)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}
