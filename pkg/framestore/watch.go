package framestore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch reports changes to the sequence's files until ctx is done or the
// store is closed. Bursts of events for one frame are coalesced: a frame is
// reported once it has been quiet for WatchDelay. notify runs on the watcher
// goroutine; hand the index over to the owner goroutine before calling
// Reload.
func (s *Store) Watch(ctx context.Context, notify func(index int)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("framestore: watch: %w", err)
	}
	dirs := make(map[string]struct{})
	for path := range s.byPath {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("framestore: watch %s: %w", dir, err)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer watcher.Close()

		done := make(chan struct{})
		quiet := make(chan int)
		timers := make(map[int]*time.Timer)
		defer func() {
			close(done)
			for _, timer := range timers {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.ctx.Done():
				return
			case index := <-quiet:
				delete(timers, index)
				notify(index)
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&watchedOps == 0 {
					continue
				}
				for _, index := range s.byPath[filepath.Clean(event.Name)] {
					if timer, ok := timers[index]; ok {
						timer.Reset(s.watchDelay)
						continue
					}
					timers[index] = time.AfterFunc(s.watchDelay, func() {
						select {
						case quiet <- index:
						case <-done:
						}
					})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("frame watcher", "err", err)
			}
		}
	}()
	return nil
}
