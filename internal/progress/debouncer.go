package progress

import (
	"strings"
	"sync"
	"time"
)

type pendingCall struct {
	timer *time.Timer
	fn    func()
	// seq tells a fired timer whether it is still the current one for its key
	seq uint64
}

// Debouncer coalesces calls per key: scheduling again before the delay passes
// restarts the timer and replaces the pending function, so only the last one runs.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]*pendingCall
	seq      uint64
	onChange func(pending int)
	// running counts the functions executing per key, idle is signalled when one ends
	running map[string]int
	idle    *sync.Cond
}

// NewDebouncer creates a debouncer. onChange, if set, is told the number of
// pending keys every time it changes.
func NewDebouncer(onChange func(pending int)) *Debouncer {
	d := &Debouncer{
		pending:  make(map[string]*pendingCall),
		onChange: onChange,
		running:  make(map[string]int),
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

func (d *Debouncer) Schedule(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}

	d.seq++
	seq := d.seq
	p := &pendingCall{fn: fn, seq: seq}
	p.timer = time.AfterFunc(delay, func() {
		d.fire(key, seq)
	})
	d.pending[key] = p
	d.notify()
}

func (d *Debouncer) fire(key string, seq uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.notify()
	d.start(key)
	d.mu.Unlock()

	defer d.done(key)
	p.fn()
}

// start must be called with d.mu held.
func (d *Debouncer) start(key string) {
	d.running[key]++
}

func (d *Debouncer) done(key string) {
	d.mu.Lock()
	if d.running[key]--; d.running[key] <= 0 {
		delete(d.running, key)
	}
	d.idle.Broadcast()
	d.mu.Unlock()
}

// Flush runs the pending function for key right away. It reports whether there was one.
func (d *Debouncer) Flush(key string) bool {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	d.notify()
	d.start(key)
	d.mu.Unlock()

	defer d.done(key)
	p.fn()
	return true
}

// Cancel drops the pending function for key without running it.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	d.notify()
	return true
}

// CancelPrefix drops every pending function whose key starts with prefix.
func (d *Debouncer) CancelPrefix(prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	cancelled := 0
	for key, p := range d.pending {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		p.timer.Stop()
		delete(d.pending, key)
		cancelled++
	}
	if cancelled > 0 {
		d.notify()
	}
	return cancelled
}

// Go runs fn in its own goroutine, counted as running under key until it
// returns, so WaitPrefix and FlushAll wait for it too.
func (d *Debouncer) Go(key string, fn func()) {
	d.mu.Lock()
	d.start(key)
	d.mu.Unlock()

	go func() {
		defer d.done(key)
		fn()
	}()
}

// WaitPrefix blocks until no function of a key starting with prefix is
// running. It must not be called from a scheduled function.
func (d *Debouncer) WaitPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.runningWithPrefix(prefix) {
		d.idle.Wait()
	}
}

// runningWithPrefix must be called with d.mu held.
func (d *Debouncer) runningWithPrefix(prefix string) bool {
	for key := range d.running {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// FlushAll runs every pending function and waits for in-flight ones to finish.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	calls := make([]func(), 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		keys = append(keys, key)
		calls = append(calls, p.fn)
		delete(d.pending, key)
		d.start(key)
	}
	d.notify()
	d.mu.Unlock()

	for i, fn := range calls {
		fn()
		d.done(keys[i])
	}
	d.WaitPrefix("")
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// notify must be called with d.mu held.
func (d *Debouncer) notify() {
	if d.onChange != nil {
		d.onChange(len(d.pending))
	}
}
