// Package watcher keeps a sync run alive: it watches the scanned
// directory tree for HTML changes with debouncing and hands batches of
// changed paths to a handler, so edited pages get their CSP hashes
// re-synced without re-invoking the tool.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives a debounced batch of changed HTML file paths.
type ChangeHandler func(paths []string)

// FileWatcher watches a directory tree for *.html changes with
// debouncing. Editors fire several events per save; bursts collapse
// into one handler call per file.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	excluded map[string]bool
	handler  ChangeHandler

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a FileWatcher. excludes are directory names skipped when
// registering watches, the same set the scanner uses.
func New(delay time.Duration, excludes []string, handler ChangeHandler) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		excluded[name] = true
	}

	return &FileWatcher{
		watcher:  w,
		delay:    delay,
		excluded: excluded,
		handler:  handler,
		pending:  make(map[string]bool),
	}, nil
}

// AddRecursive registers root and every non-excluded subdirectory.
// fsnotify watches are not recursive by themselves.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && fw.excluded[d.Name()] {
			return filepath.SkipDir
		}

		return fw.watcher.Add(path)
	})
}

// Start runs the watch loop until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep watching.
		}
	}
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	// New directories need their own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !fw.excluded[filepath.Base(event.Name)] {
				_ = fw.watcher.Add(event.Name)
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".html") {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending[event.Name] = true

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.flush)
}

// flush delivers the pending batch.
func (fw *FileWatcher) flush() {
	fw.mu.Lock()
	paths := make([]string, 0, len(fw.pending))
	for p := range fw.pending {
		paths = append(paths, p)
	}
	fw.pending = make(map[string]bool)
	fw.mu.Unlock()

	sort.Strings(paths)

	if len(paths) > 0 && fw.handler != nil {
		fw.handler(paths)
	}
}
