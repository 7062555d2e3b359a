package session

import (
	"sync"
	"time"
)

// IdleWatch fires onTimeout after a period without Touch calls. When
// warnBefore is positive, onWarning fires that long before the timeout
// unless activity resets the clock first. Timers are single-shot; every
// Touch rearms both.
type IdleWatch struct {
	timeout    time.Duration
	warnBefore time.Duration
	onWarning  func()
	onTimeout  func()

	mu        sync.Mutex
	warnTimer *time.Timer
	fireTimer *time.Timer
	stopped   bool
}

func NewIdleWatch(timeout, warnBefore time.Duration, onWarning, onTimeout func()) *IdleWatch {
	if warnBefore >= timeout {
		warnBefore = 0
	}
	return &IdleWatch{
		timeout:    timeout,
		warnBefore: warnBefore,
		onWarning:  onWarning,
		onTimeout:  onTimeout,
		stopped:    true,
	}
}

// Start arms the watchdog. Starting an already running watch resets it.
func (w *IdleWatch) Start() {
	w.mu.Lock()
	w.stopped = false
	w.rearmLocked()
	w.mu.Unlock()
}

// Touch registers activity and pushes both timers out. A pending warning
// is cancelled. No-op once stopped.
func (w *IdleWatch) Touch() {
	w.mu.Lock()
	if !w.stopped {
		w.rearmLocked()
	}
	w.mu.Unlock()
}

// Stop disarms the watchdog. Idempotent, safe from timer callbacks.
func (w *IdleWatch) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.cancelLocked()
	w.mu.Unlock()
}

func (w *IdleWatch) rearmLocked() {
	w.cancelLocked()
	if w.warnBefore > 0 && w.onWarning != nil {
		w.warnTimer = time.AfterFunc(w.timeout-w.warnBefore, w.warn)
	}
	w.fireTimer = time.AfterFunc(w.timeout, w.fire)
}

func (w *IdleWatch) cancelLocked() {
	if w.warnTimer != nil {
		w.warnTimer.Stop()
		w.warnTimer = nil
	}
	if w.fireTimer != nil {
		w.fireTimer.Stop()
		w.fireTimer = nil
	}
}

func (w *IdleWatch) warn() {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		w.onWarning()
	}
}

// fire marks the watch stopped before invoking onTimeout so a slow
// callback cannot race a second expiry.
func (w *IdleWatch) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.cancelLocked()
	w.mu.Unlock()
	w.onTimeout()
}
