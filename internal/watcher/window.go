// Package watcher - window.go keeps the trailing window of recent requests.
//
// DESIGN: Fixed-capacity ring buffer in arrival order. The error rate is
// recomputed from scratch on every call; the window is small and bounded so
// the O(n) scan is cheaper than keeping an incremental counter honest
// across evictions.
package watcher

import "github.com/opspulse/pool-watcher/internal/logline"

// Window is a fixed-capacity trailing buffer of request records.
// Not safe for concurrent use; the stream processor is the only writer.
type Window struct {
	records []logline.Record
	size    int
	next    int // index of the slot the next append writes to
	count   int
}

// NewWindow creates a window holding at most size records.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		records: make([]logline.Record, size),
		size:    size,
	}
}

// Append adds a record at the tail, evicting the oldest when full.
func (w *Window) Append(rec logline.Record) {
	w.records[w.next] = rec
	w.next = (w.next + 1) % w.size
	if w.count < w.size {
		w.count++
	}
}

// Len returns the number of records currently held.
func (w *Window) Len() int { return w.count }

// Cap returns the configured window size.
func (w *Window) Cap() int { return w.size }

// ServerErrorCount returns how many held records carry a 5xx status.
func (w *Window) ServerErrorCount() int {
	errors := 0
	for i := 0; i < w.count; i++ {
		if w.records[i].IsServerError() {
			errors++
		}
	}
	return errors
}

// ErrorRatePercent returns the 5xx share of the window as a percentage.
// An empty window reports exactly 0.0.
func (w *Window) ErrorRatePercent() float64 {
	if w.count == 0 {
		return 0.0
	}
	return 100 * float64(w.ServerErrorCount()) / float64(w.count)
}
