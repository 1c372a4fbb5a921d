// Package watcher implements file system watching for rebuild-on-change.
package watcher

import (
	"slices"
	"sync"
	"time"
)

// DefaultDebounceWindow is the default time window for coalescing file events.
// Editors usually write a file in several steps.
const DefaultDebounceWindow = 200 * time.Millisecond

// Debouncer coalesces rapid file system events into one batch of changed paths.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
// The callback receives the changed paths sorted and without duplicates.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs when the window expires without new events.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush delivers all pending paths immediately and blocks until the callback
// returns. It does nothing if the timer already fired.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// takeLocked must be called with d.mu held.
func (d *Debouncer) takeLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	d.pending = make(map[string]struct{})
	return paths
}
