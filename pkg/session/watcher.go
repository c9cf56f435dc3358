package session

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval coalesces bursts of filesystem events (editors often write
// a file several times in quick succession) into one reload.
const debounceInterval = 200 * time.Millisecond

// Watch reloads the session whenever documents under the source roots change.
// It blocks until ctx is canceled. onReload, if non-nil, is invoked after
// every reload attempt with its result.
func (s *Session) Watch(ctx context.Context, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Ignore errors.

	for _, ds := range s.sources {
		if err := watchTree(watcher, filepath.Clean(ds.Root)); err != nil {
			return err
		}
	}

	debounce := time.NewTimer(debounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			slog.DebugContext(ctx, "document change detected",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			// New subdirectories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := watchTree(watcher, event.Name); addErr != nil {
						slog.WarnContext(ctx, "watch new directory",
							slog.String("path", event.Name),
							slog.Any("error", addErr),
						)
					}
				}
			}

			debounce.Reset(debounceInterval)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.WarnContext(ctx, "fsnotify error", slog.Any("error", watchErr))

		case <-debounce.C:
			err := s.Reload(ctx)
			if err != nil {
				slog.WarnContext(ctx, "reload after document change", slog.Any("error", err))
			}

			if onReload != nil {
				onReload(err)
			}
		}
	}
}

// watchTree registers root and every directory below it. Missing roots are
// skipped, consistent with discovery.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %q: %w", p, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %q: %w", root, err)
	}

	return nil
}
