package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/logger"
)

// Watcher reports changes to shader source files. Notifications are
// coalesced: however many writes happen between two frames, the frame
// loop sees a single pending reload.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
}

// NewWatcher watches the given files. Empty paths are ignored; if no
// path remains, NewWatcher returns nil and no error.
//
// The parent directories are watched rather than the files, because many
// editors save by renaming a temporary file over the original.
func NewWatcher(paths ...string) (*Watcher, error) {
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	if len(files) == 0 {
		return nil, nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating shader watcher: %w", err)
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w := &Watcher{
		watcher: fw,
		files:   files,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			logger.Dbg.Debug("shader source changed", zap.String("file", event.Name))
			select {
			case w.changed <- struct{}{}:
			default: // a reload is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Changed is signalled when a watched file was modified.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
