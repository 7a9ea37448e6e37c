package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/argonaut/internal/logger"
)

// reloadDebounce coalesces bursts of editor writes into one reload.
const reloadDebounce = 200 * time.Millisecond

// WatchPrompts reloads store whenever a .txt file in its directory changes.
// It blocks until ctx is cancelled. onReload, if non-nil, runs after each reload.
func WatchPrompts(ctx context.Context, store *PromptStore, onReload func()) error {
	store.seed.Do(store.seedDefaults)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(store.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", store.Dir(), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPromptEvent(event) {
				continue
			}
			logger.Debug("prompt file changed: %s (%s)", filepath.Base(event.Name), event.Op)
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			store.Reload()
			if onReload != nil {
				onReload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// isPromptEvent reports whether the event touches a prompt template.
func isPromptEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".txt") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
