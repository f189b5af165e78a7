// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics:
//   - lines/parse_failures:  Ingest volume and unreadable lines
//   - unattributed:          Lines with no pool identifier
//   - alerts_*:              Gate outcomes and delivery failures
//
// Logged as a summary on shutdown; no metrics endpoint is exposed.
package monitoring

import "sync/atomic"

// MetricsCollector collects operational metrics.
type MetricsCollector struct {
	lines            atomic.Int64
	parseFailures    atomic.Int64
	unattributed     atomic.Int64
	alertsDispatched atomic.Int64
	alertsSuppressed atomic.Int64
	notifyFailures   atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordLine records one consumed line.
func (mc *MetricsCollector) RecordLine() { mc.lines.Add(1) }

// RecordParseFailure records a dropped unparsable line.
func (mc *MetricsCollector) RecordParseFailure() { mc.parseFailures.Add(1) }

// RecordUnattributed records a line with no pool attribution.
func (mc *MetricsCollector) RecordUnattributed() { mc.unattributed.Add(1) }

// RecordAlertDispatched records an alert allowed through the gate.
func (mc *MetricsCollector) RecordAlertDispatched() { mc.alertsDispatched.Add(1) }

// RecordAlertSuppressed records an alert blocked by the gate.
func (mc *MetricsCollector) RecordAlertSuppressed() { mc.alertsSuppressed.Add(1) }

// RecordNotifyFailure records a failed outbound delivery.
func (mc *MetricsCollector) RecordNotifyFailure() { mc.notifyFailures.Add(1) }

// Stats returns current metrics.
func (mc *MetricsCollector) Stats() map[string]int64 {
	return map[string]int64{
		"lines":             mc.lines.Load(),
		"parse_failures":    mc.parseFailures.Load(),
		"unattributed":      mc.unattributed.Load(),
		"alerts_dispatched": mc.alertsDispatched.Load(),
		"alerts_suppressed": mc.alertsSuppressed.Load(),
		"notify_failures":   mc.notifyFailures.Load(),
	}
}
