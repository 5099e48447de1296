package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watchSnapshot calls onChange after every write to path until ctx is done.
// The parent directory is watched so captures replaced by rename are seen.
func watchSnapshot(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	color.New(color.FgCyan).Printf("👀 Watching %s for changes (Ctrl+C to stop)\n", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			color.New(color.FgCyan).Printf("\n🔄 %s changed, extracting again...\n", path)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgRed).Printf("✗ Watcher error: %v\n", err)
		}
	}
}
