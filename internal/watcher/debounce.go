package watcher

import "time"

// pendingEvent tracks an event waiting for its quiet period to elapse.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// schedule coalesces event with any pending event for the same path and
// restarts the delay. w.mu must be held.
func (w *Watcher) schedule(event Event) {
	if p, exists := w.pending[event.Path]; exists {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(w.config.Debounce)
		return
	}

	p := &pendingEvent{event: event}
	path := event.Path
	p.timer = time.AfterFunc(w.config.Debounce, func() {
		w.fire(path)
	})
	w.pending[path] = p
}

// cancelPending drops the pending event for path. w.mu must be held.
func (w *Watcher) cancelPending(path string) {
	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// fire delivers the pending event for path, dropping it when the channel
// is full.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	p, exists := w.pending[path]
	if !exists {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
	default:
	}
}

// PendingCount returns the number of events waiting to be delivered.
func (w *Watcher) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush immediately delivers all pending events.
func (w *Watcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	w.mu.Unlock()

	for _, path := range paths {
		w.fire(path)
	}
}
