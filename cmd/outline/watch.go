package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a document must go without further events
// before it is processed, so files still being copied are read whole.
var settleDelay = 500 * time.Millisecond

// watch processes documents created or rewritten in dir until ctx ends.
func (b *batcher) watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	sem := make(chan struct{}, b.workers)
	q := newSettleQueue(settleDelay, func(path string) error {
		sem <- struct{}{}
		defer func() { <-sem }()
		return b.processFile(ctx, path)
	})
	defer q.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-q.errc:
			return err
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, ok := watchTarget(event)
			if !ok {
				continue
			}
			b.log.Debug("document changed", "file", path, "op", event.Op.String())
			q.touch(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("watch error", "error", err)
		}
	}
}

// watchTarget returns the document to process for a watch event. Only
// creates and writes of regular, supported files count.
func watchTarget(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !isDocument(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// settleQueue coalesces watch events per path. A path runs once its
// events have been quiet for the delay, and never twice at the same time:
// events arriving during a run schedule exactly one more run afterwards.
type settleQueue struct {
	delay time.Duration
	run   func(path string) error
	errc  chan error

	mu      sync.Mutex
	wg      sync.WaitGroup
	closed  bool
	timers  map[string]*time.Timer
	running map[string]bool
	again   map[string]bool
}

func newSettleQueue(delay time.Duration, run func(path string) error) *settleQueue {
	return &settleQueue{
		delay:   delay,
		run:     run,
		errc:    make(chan error, 1),
		timers:  make(map[string]*time.Timer),
		running: make(map[string]bool),
		again:   make(map[string]bool),
	}
}

// touch records an event for path and restarts its quiet period.
func (q *settleQueue) touch(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if t, ok := q.timers[path]; ok && t.Stop() {
		t.Reset(q.delay)
		return
	}
	q.timers[path] = time.AfterFunc(q.delay, func() { q.fire(path) })
}

func (q *settleQueue) fire(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.timers, path)
	if q.closed {
		return
	}
	if q.running[path] {
		q.again[path] = true
		return
	}
	q.running[path] = true
	q.wg.Add(1)
	go q.loop(path)
}

func (q *settleQueue) loop(path string) {
	defer q.wg.Done()
	for {
		err := q.run(path)

		q.mu.Lock()
		if err != nil || !q.again[path] || q.closed {
			delete(q.again, path)
			delete(q.running, path)
			q.mu.Unlock()
			if err != nil {
				select {
				case q.errc <- err:
				default:
				}
			}
			return
		}
		delete(q.again, path)
		q.mu.Unlock()
	}
}

// stop cancels pending runs and waits for running ones.
func (q *settleQueue) stop() {
	q.mu.Lock()
	q.closed = true
	for path, t := range q.timers {
		t.Stop()
		delete(q.timers, path)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
