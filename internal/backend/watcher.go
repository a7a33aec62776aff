package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/satisfying-background/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindContent Kind = iota
)

// Event reports that files under the content root changed. Bursts of
// filesystem notifications are coalesced into a single event.
type Event struct {
	Kind  Kind
	Paths []string
	Err   error
}

// Watcher observes the content root and publishes change events.
type Watcher struct {
	root string

	ctx    context.Context
	cancel context.CancelFunc

	fsw      *fsnotify.Watcher
	throttle *throttle
	events   chan Event
	wg       sync.WaitGroup
}

// NewWatcher starts watching root. Events are spaced at least interval apart.
func NewWatcher(root string, interval time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("content watcher: %w", err)
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:     root,
		ctx:      ctx,
		cancel:   cancel,
		fsw:      fsw,
		throttle: newThrottle(interval),
		events:   make(chan Event, 16),
	}
	w.wg.Add(1)
	go w.loop()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Events returns a channel of backend events. It is closed after Stop once
// the loop has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Stop cancels the watcher and releases the notification handle.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the loop has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer w.fsw.Close()
	for {
		select {
		case <-w.ctx.Done():
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			events.Backend.Error(err)
			if !w.emit(Event{Kind: KindContent, Err: err}) {
				return
			}
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			events.Backend.Change(ev.Name, ev.Op.String())
			paths := map[string]struct{}{filepath.Base(ev.Name): {}}
			if !w.throttle.wait(w.ctx) {
				return
			}
			w.collect(paths)
			if !w.emit(Event{Kind: KindContent, Paths: sortedKeys(paths)}) {
				return
			}
		}
	}
}

// collect folds notifications that queued up while throttled into paths.
func (w *Watcher) collect(paths map[string]struct{}) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			paths[filepath.Base(ev.Name)] = struct{}{}
		default:
			return
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
