// Package watcher - failover.go detects backend pool changes.
package watcher

import "github.com/opspulse/pool-watcher/internal/logline"

// FailoverEvent is emitted when the serving pool changes between two
// consecutive attributable requests.
type FailoverEvent struct {
	From string
	To   string
}

// FailoverDetector is an edge detector over the sequence of observed pool
// identifiers. Not safe for concurrent use.
type FailoverDetector struct {
	lastPool string // empty until the first attributable observation
}

// NewFailoverDetector creates a detector with no pool seen yet.
func NewFailoverDetector() *FailoverDetector {
	return &FailoverDetector{}
}

// Observe feeds one pool identifier to the detector. It returns a
// FailoverEvent and true when the pool changed.
//
// The "unknown" sentinel is never remembered as last seen: a transient
// unattributable reading between two real pools must not mask the change,
// and two real pools in a row are not required to detect one.
func (d *FailoverDetector) Observe(pool string) (FailoverEvent, bool) {
	if pool == logline.PoolUnknown {
		return FailoverEvent{}, false
	}
	if d.lastPool == "" {
		d.lastPool = pool
		return FailoverEvent{}, false
	}
	if pool != d.lastPool {
		ev := FailoverEvent{From: d.lastPool, To: pool}
		d.lastPool = pool
		return ev, true
	}
	return FailoverEvent{}, false
}

// LastPool returns the most recently seen attributable pool, or "" if none
// has been observed yet.
func (d *FailoverDetector) LastPool() string { return d.lastPool }
