package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// watchAndRebuild calls rebuild once changes under roots have settled for
// debounceInterval. Changes to output itself are ignored.
func watchAndRebuild(ctx context.Context, roots []string, output string, errOut func(error), rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		if err := addWatchDirs(watcher, root); err != nil {
			return fmt.Errorf("failed to watch directories: %w", err)
		}
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevantChange(event, output) {
				continue
			}
			debounce = time.After(debounceInterval)

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

		case <-debounce:
			debounce = nil
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errOut(fmt.Errorf("watcher error: %w", err))
		}
	}
}

func isRelevantChange(event fsnotify.Event, output string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(event.Name) != filepath.Clean(output)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

func addWatchDirsWithAdder(root string, adder func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := adder(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
