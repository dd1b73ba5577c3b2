package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the current scene whenever its file is written, until ctx is done.
// Events are coalesced for the debounce period so that an editor saving in several
// writes triggers one reload. Reload errors are logged and the previous tree is kept.
//
// The directory is watched rather than the file because editors commonly save by
// renaming a temporary file over the original.
//
// Parameters:
//   - ctx: cancels the watch
//
// Returns:
//   - error: ErrNoScene, a watcher setup error, or nil when ctx is done
func (e *engineContext) Watch(ctx context.Context) error {
	s := e.Scene()
	if s == nil || s.Path() == "" {
		return ErrNoScene
	}
	path, err := filepath.Abs(s.Path())
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.Path(), err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	log.Printf("[Engine] watching %s", path)

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(e.watchDebounce)
			} else {
				debounce.Reset(e.watchDebounce)
			}
			fire = debounce.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Engine] watch %s: %v", path, err)
		case <-fire:
			fire = nil
			if e.Scene() != s {
				// the scene was replaced; its watcher is no longer wanted
				return nil
			}
			if err := e.Reload(); err != nil {
				log.Printf("[Engine] reload %s: %v", path, err)
			}
		}
	}
}
