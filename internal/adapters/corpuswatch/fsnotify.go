// Package corpuswatch monitors the corpus file for changes.
// Clean Architecture: Adapter implementing ports.CorpusWatcher.
// The vector store is populate-once, so a changed corpus file is never
// re-ingested automatically; the watcher exists to make staleness visible.
package corpuswatch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"stylux/internal/domain/ports"
)

// FSNotifyWatcher implements ports.CorpusWatcher using fsnotify.
type FSNotifyWatcher struct {
	watcher *fsnotify.Watcher
}

// NewFSNotifyWatcher creates a new corpus file watcher.
func NewFSNotifyWatcher() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FSNotifyWatcher{watcher: w}, nil
}

// Watch starts monitoring the corpus file and emits events.
// fsnotify watches directories more reliably than single files across
// editors that replace-on-save, so the parent directory is watched and
// events are filtered to the corpus path.
func (w *FSNotifyWatcher) Watch(ctx context.Context, path string) (<-chan ports.CorpusEvent, error) {
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	target := filepath.Clean(path)
	events := make(chan ports.CorpusEvent, 16)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}

				var op ports.CorpusOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = ports.CorpusCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = ports.CorpusModified
				case event.Op&fsnotify.Remove == fsnotify.Remove:
					op = ports.CorpusRemoved
				default:
					continue
				}

				select {
				case events <- ports.CorpusEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}
