package corpuswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stylux/internal/domain/ports"
)

func TestFSNotifyWatcher_DetectsCorpusWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "final.csv")
	if err := os.WriteFile(path, []byte("skin_tone\n"), 0644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}

	watcher, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := watcher.Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("skin_tone\nfair\n"), 0644); err != nil {
		t.Fatalf("modifying corpus: %v", err)
	}

	select {
	case event := <-events:
		if event.Operation != ports.CorpusModified && event.Operation != ports.CorpusCreated {
			t.Errorf("unexpected operation: %v", event.Operation)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for corpus event")
	}
}

func TestFSNotifyWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "final.csv")
	otherPath := filepath.Join(dir, "notes.txt")
	os.WriteFile(corpusPath, []byte("skin_tone\n"), 0644)

	watcher, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := watcher.Watch(ctx, corpusPath)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}

	os.WriteFile(otherPath, []byte("unrelated"), 0644)

	select {
	case event := <-events:
		t.Errorf("unexpected event for %s", event.Path)
	case <-time.After(500 * time.Millisecond):
		// No event is the expected outcome.
	}
}
