package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vestige-dev/vestige/pkg/config"
)

func TestWatcherDetectsPluginChange(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := New(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var changed []string
	w.SetCallback(func(path string) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watcher time to register the tree.
	time.Sleep(100 * time.Millisecond)

	csFile := filepath.Join(tmpDir, "MyPlugin.cs")
	if err := os.WriteFile(csFile, []byte("class MyPlugin { }\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(changed)
		mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("change was not reported before deadline")
}

func TestWatcherIgnoresNonPluginFiles(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := New(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	var mu sync.Mutex
	var changed []string
	w.SetCallback(func(path string) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(changed) != 0 {
		t.Errorf("non-plugin change reported: %v", changed)
	}
}

func TestWatcherSkipsExcludedDirs(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "obj"), 0755); err != nil {
		t.Fatal(err)
	}

	w, err := New(tmpDir, config.DefaultConfig(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	for _, dir := range w.WatchedDirs() {
		if filepath.Base(dir) == "obj" {
			t.Errorf("excluded directory is watched: %s", dir)
		}
	}
}
