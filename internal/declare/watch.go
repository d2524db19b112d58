package declare

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/leapmeta/pkg/schema"
)

// watchDebounce coalesces bursts of file events into one rebuild.
var watchDebounce = 100 * time.Millisecond

// Watch builds the registry from paths, then rebuilds it whenever a
// declaration file changes. Every build result, failed or not, is passed to
// onBuild. Watch returns when ctx is done.
func Watch(ctx context.Context, logger *slog.Logger, onBuild func(*schema.Registry, error), paths ...string) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Files are watched through their directory so that editors replacing
	// the file on save keep being observed.
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		dir := filepath.Clean(p)
		if info.IsDir() {
			dirs[dir] = true
		} else {
			dir = filepath.Dir(dir)
			files[filepath.Clean(p)] = true
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	relevant := func(ev fsnotify.Event) bool {
		if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
			return false
		}
		if files[filepath.Clean(ev.Name)] {
			return true
		}
		ext := filepath.Ext(ev.Name)
		return (ext == ".yaml" || ext == ".yml") && dirs[filepath.Dir(filepath.Clean(ev.Name))]
	}

	onBuild(Build(logger, paths...))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("declarations changed", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			onBuild(Build(logger, paths...))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}
