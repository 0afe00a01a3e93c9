// Package autosave turns a burst of template edits into a single delayed
// persistence call: each Arm re-starts the countdown, so only the last value
// of a burst is saved once the editor goes quiet.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SaveFunc persists the template text.
type SaveFunc func(ctx context.Context, raw string) error

// Debouncer is a cancellable delayed action re-armed on each edit.
type Debouncer struct {
	delay       time.Duration
	save        SaveFunc
	saveTimeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	armed   bool
	closed  bool
}

// New creates a Debouncer that fires delay after the most recent Arm.
func New(delay time.Duration, save SaveFunc) *Debouncer {
	return &Debouncer{
		delay:       delay,
		save:        save,
		saveTimeout: 10 * time.Second,
	}
}

// Arm schedules raw to be saved once the delay elapses without another Arm.
// Calls after Close are ignored.
func (d *Debouncer) Arm(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.pending = raw
	d.armed = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// fire persists the pending value, unless a Flush already took it.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.armed || d.closed {
		d.mu.Unlock()
		return
	}
	raw := d.pending
	d.armed = false
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.saveTimeout)
	defer cancel()

	if err := d.save(ctx, raw); err != nil {
		slog.Error("template autosave failed", "error", err)
	}
}

// Flush saves any pending value immediately and cancels the timer.
// A Flush with nothing pending is a no-op.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return nil
	}
	raw := d.pending
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	return d.save(ctx, raw)
}

// Close stops the timer for good. Pending edits are dropped; call Flush
// first when they must survive shutdown.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.armed = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
