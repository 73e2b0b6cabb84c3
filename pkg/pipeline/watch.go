package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ibelion/omniwiki/pkg/universe"
)

// DefaultDebounce batches rapid saves into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watch rebuilds with cfg whenever a CSV under the source root changes,
// until ctx is done. Universe directories are watched individually since
// fsnotify is not recursive. onBuild receives each rebuild's summary.
func Watch(ctx context.Context, cfg Config, debounce time.Duration, onBuild func(*Summary)) error {
	log := cfg.Log
	if log == nil {
		log = universe.NopLogger{}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, b := range cfg.Builders {
		dir := filepath.Join(cfg.SourceRoot, b.Name())
		if _, err := os.Stat(dir); err != nil {
			log.Warnf("Not watching %s: %v", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		log.Infof("Watching %s", dir)
	}

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
			if !isSourceEvent(event) {
				continue
			}
			log.Debugf("%s: %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("Watcher error: %v", err)

		case <-fire:
			fire = nil
			onBuild(BuildAll(ctx, cfg))
		}
	}
}

// isSourceEvent reports whether event touches a source table.
func isSourceEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := strings.ToLower(event.Name)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz")
}
