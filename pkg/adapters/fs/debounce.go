package fs

import (
	"sync"
	"time"

	"github.com/whiteash/scratchpad/pkg/core"
)

// debouncer coalesces bursts of events per key: only the last event inside a
// quiet window is delivered. One live timer per key, stopped before
// re-arming.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window:  window,
		pending: make(map[string]*time.Timer),
	}
}

// add schedules fn(event) after the quiet window, superseding any timer
// already pending for the same key.
func (d *debouncer) add(event core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[event.Key]; ok && prev.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		// A newer timer may have replaced this one between firing and
		// acquiring the lock; only the current holder of the slot may
		// deliver.
		if d.stopped || d.pending[event.Key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.pending, event.Key)
		d.mu.Unlock()

		fn(event)
	})
	d.pending[event.Key] = t
}

// stopAndWait rejects new events, cancels pending timers, and waits up to
// timeout for in-flight deliveries to finish.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
