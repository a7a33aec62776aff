package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsNewContent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() {
		w.Stop()
		w.Wait()
	}()
	if w.Root() != dir {
		t.Fatalf("expected root %s, got %s", dir, w.Root())
	}

	if err := os.WriteFile(filepath.Join(dir, "matrix.html"), []byte("<p>x</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				t.Fatalf("events channel closed early")
			}
			if evt.Err != nil {
				continue
			}
			for _, p := range evt.Paths {
				if p == "matrix.html" {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change event")
		}
	}
}

func TestNewWatcherMissingRoot(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), time.Millisecond); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestStopClosesEvents(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.Stop()
	w.Wait()
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected closed channel after stop")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	ctx := context.Background()
	th := newThrottle(20 * time.Millisecond)
	start := time.Now()
	if !th.wait(ctx) || !th.wait(ctx) {
		t.Fatalf("expected both waits to take a slot")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected second wait to be delayed, took %s", elapsed)
	}
	var nilThrottle *throttle
	if !nilThrottle.wait(ctx) || !newThrottle(0).wait(ctx) {
		t.Fatalf("expected disabled throttles to pass through")
	}
}

func TestThrottleCancelled(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("expected first slot immediately")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected cancelled wait to give up")
	}
}
