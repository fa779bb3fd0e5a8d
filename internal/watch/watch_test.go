package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherBuildsOnceImmediately(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cb64")
	if err := os.WriteFile(path, []byte("def main():\n    pass\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var builds int32
	w, err := New([]string{path}, func() { atomic.AddInt32(&builds, 1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	go w.Run()
	time.Sleep(20 * time.Millisecond)

	if got := atomic.LoadInt32(&builds); got != 1 {
		t.Fatalf("builds after start = %d, want 1 (the initial build)", got)
	}
}

func TestWatcherRebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cb64")
	if err := os.WriteFile(path, []byte("def main():\n    pass\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var builds int32
	w, err := New([]string{path}, func() { atomic.AddInt32(&builds, 1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	go w.Run()
	time.Sleep(20 * time.Millisecond) // let the initial build happen

	if err := os.WriteFile(path, []byte("def main():\n    pass\n\n"), 0644); err != nil {
		t.Fatalf("rewriting fixture: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&builds) >= 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("builds after write = %d, want at least 2", atomic.LoadInt32(&builds))
}
