package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of write events editors and downloads
// produce for a single save.
const watchDebounce = 250 * time.Millisecond

// Watch regenerates the artifacts whenever the input dictionary changes,
// until ctx is cancelled. onRun is invoked after every pass with its result
// or error; generation errors do not stop the watch.
func (e *Engine) Watch(ctx context.Context, onRun func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a watch registered on the file itself.
	dir := filepath.Dir(e.cfg.InputPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	input, err := filepath.Abs(e.cfg.InputPath)
	if err != nil {
		return err
	}

	e.logger.Info("watching data dictionary", "path", e.cfg.InputPath)

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != input {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error", "error", err)

		case <-pending:
			result, err := e.Generate(ctx)
			if err != nil {
				e.logger.Error("regeneration failed", "error", err)
			}
			if onRun != nil {
				onRun(result, err)
			}
		}
	}
}
