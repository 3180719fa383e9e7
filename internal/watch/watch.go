// Package watch re-runs a callback when a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arlyon/async-stripe-sub040/parser"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file for changes.
type Watcher struct {
	file     string
	callback func() error
	debounce time.Duration
	log      parser.Logger
	watcher  *fsnotify.Watcher
}

// New creates a watcher for file. The containing directory is watched so
// that editors which replace the file on save are still noticed.
func New(file string, callback func() error, debounce time.Duration, log parser.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = parser.NopLogger{}
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("watch: failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch: failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		debounce: debounce,
		log:      log.With("file", absPath),
		watcher:  watcher,
	}, nil
}

// Run calls the callback once, then again after every burst of changes,
// until ctx is done. Callback errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	if err := w.callback(); err != nil {
		w.log.Error("initial run failed", "error", err)
	}

	events := make(chan string)
	go func() {
		defer close(events)
		for event := range w.watcher.Events {
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case events <- event.Name:
			case <-ctx.Done():
				return
			}
		}
	}()

	return w.loop(ctx, events, w.watcher.Errors)
}

// loop debounces change events for the watched file.
func (w *Watcher) loop(ctx context.Context, events <-chan string, errs <-chan error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case name, ok := <-events:
			if !ok {
				return nil
			}
			if abs, err := filepath.Abs(name); err != nil || abs != w.file {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.Info("change detected")
			if err := w.callback(); err != nil {
				w.log.Error("run failed", "error", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
