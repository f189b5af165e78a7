// Package watcher - gate.go rate-limits outbound alerts.
//
// DESIGN: One independent cooldown clock per alert type, so a failover
// alert in cooldown never blocks an unrelated error-rate alert.
// Maintenance mode suppresses without touching the ledger: a suppressed
// alert must not consume the cooldown, otherwise lifting maintenance mode
// would silently delay the next real alert.
package watcher

import "time"

// Gate decides whether a candidate alert may be dispatched now.
// Not safe for concurrent use.
type Gate struct {
	cooldown    time.Duration
	maintenance bool
	enabled     bool // false when no notifier endpoint is configured
	last        map[AlertType]time.Time
}

// NewGate creates a gate. enabled should be false when no notifier
// endpoint is configured; the gate then rejects everything, turning
// alerting into a no-op sink rather than an error.
func NewGate(cooldown time.Duration, maintenance, enabled bool) *Gate {
	return &Gate{
		cooldown:    cooldown,
		maintenance: maintenance,
		enabled:     enabled,
		last:        make(map[AlertType]time.Time),
	}
}

// SetMaintenance flips the global suppression switch. Suppression wins over
// cooldown bookkeeping: while set, TryAcquire rejects without touching the
// ledger, so lifting it restores the original cooldown baselines.
func (g *Gate) SetMaintenance(on bool) { g.maintenance = on }

// TryAcquire reports whether an alert of the given type may be dispatched
// at instant now. On true the ledger records now as the type's last
// dispatch; on false the ledger is untouched.
func (g *Gate) TryAcquire(alertType AlertType, now time.Time) bool {
	if g.maintenance || !g.enabled {
		return false
	}
	if prev, ok := g.last[alertType]; ok && now.Sub(prev) < g.cooldown {
		return false
	}
	g.last[alertType] = now
	return true
}
