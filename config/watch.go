package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/lodvec/lodvec/logging"
)

// watchDebounce collapses the burst of events an editor produces on save.
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange with the new config every time the file at path is
// written and the result is valid. Invalid revisions are logged and skipped.
// It blocks until ctx is done; onChange is never called after it returns.
func Watch(ctx context.Context, path string, logger logging.Logger, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer goutils.UncheckedErrorFunc(watcher.Close)
	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watching %s", abs)
	}
	logger.Debugw("watching config", "path", abs)

	var mu sync.Mutex
	stopped := false
	defer func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
	}()
	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		cfg, err := Read(abs, logger)
		if err != nil {
			logger.Warnw("ignoring unreadable config", "path", abs, "error", err)
			return
		}
		if err := cfg.Validate(abs); err != nil {
			logger.Warnw("ignoring invalid config", "path", abs, "error", err)
			return
		}
		onChange(cfg)
	}
	debounced := debounce.New(watchDebounce)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounced(reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("config watcher error", "error", err)
		}
	}
}
