package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewValidatesConfig(t *testing.T) {
	handler := func(context.Context, []string) {}

	if _, err := New(Config{}, handler); !errors.Is(err, ErrDirRequired) {
		t.Fatalf("expected ErrDirRequired, got %v", err)
	}
	if _, err := New(Config{Dirs: []string{"content"}}, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestWatcherBatchesWrites(t *testing.T) {
	dir := t.TempDir()

	var (
		mu      sync.Mutex
		batches [][]string
	)
	handler := func(_ context.Context, changed []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, changed)
	}

	watcher, err := New(Config{Dirs: []string{dir}, Debounce: 50 * time.Millisecond}, handler)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = watcher.Run(ctx)
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	for _, name := range []string{"a.md", "b.md", "ignored.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		count := len(batches)
		mu.Unlock()
		if count > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for debounced batch")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected 1 debounced batch, got %d", len(batches))
	}
	for _, path := range batches[0] {
		if filepath.Ext(path) == ".tmp" {
			t.Fatalf("expected non-content file filtered, got %v", batches[0])
		}
	}
	if len(batches[0]) != 2 {
		t.Fatalf("expected 2 changed files, got %v", batches[0])
	}
}
