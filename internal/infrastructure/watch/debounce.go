// Package watch reports debounced changes to workspace files.
package watch

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before collected changes are flushed.
// A ticket edit truncates and rewrites tickets.json, which fsnotify reports
// as a burst of write events well inside this window.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer collects workspace changes and flushes them as one batch once
// the window passes with no new change.
type Debouncer struct {
	window time.Duration
	flush  func([]ChangeEvent)

	mu      sync.Mutex
	timer   *time.Timer
	pending []ChangeEvent
}

// NewDebouncer creates a debouncer. A non-positive window uses DefaultDebounce.
func NewDebouncer(window time.Duration, flush func([]ChangeEvent)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, flush: flush}
}

// Add records ev and restarts the window. A later change to a path already in
// the batch replaces the earlier one in place, so each file appears once in
// first-seen order.
func (d *Debouncer) Add(ev ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := false
	for i := range d.pending {
		if d.pending[i].Path == ev.Path {
			d.pending[i] = ev
			replaced = true
			break
		}
	}
	if !replaced {
		d.pending = append(d.pending, ev)
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if len(batch) > 0 && d.flush != nil {
		d.flush(batch)
	}
}

// Stop cancels any pending flush and drops the collected changes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
