package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces rapid change bursts per path. Editors and build tools
// often touch a file several times in quick succession; only the last write
// of a burst should trigger work.
type debouncer struct {
	delay time.Duration
	fn    func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration, fn func(path string)) *debouncer {
	return &debouncer{
		delay:  delay,
		fn:     fn,
		timers: make(map[string]*time.Timer),
	}
}

// trigger schedules fn for path, resetting the pending timer if one exists.
func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[path]; ok {
		timer.Reset(d.delay)
		return
	}

	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.fn(path)
	})
}

// stop cancels all pending timers.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, timer := range d.timers {
		timer.Stop()
		delete(d.timers, path)
	}
}
