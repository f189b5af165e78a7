// Package watcher - alerts.go defines the alert taxonomy shared by the
// gate, the processor and the notifier.
package watcher

import "context"

// AlertType identifies which cooldown clock an alert runs on.
type AlertType string

const (
	AlertFailover  AlertType = "failover"
	AlertErrorRate AlertType = "error_rate"
	AlertRecovery  AlertType = "recovery"
	AlertInfo      AlertType = "info"
)

// Alert is a candidate or dispatched alert.
type Alert struct {
	Type    AlertType
	Message string
}

// Notifier delivers an alert to an external messaging endpoint.
// Delivery is at-most-once and best-effort: implementations bound the call
// with their own short timeout and the caller only logs failures.
type Notifier interface {
	Send(ctx context.Context, alertType AlertType, message string) error
}

// Journal records dispatched alerts for later inspection. Optional; a nil
// journal disables recording.
type Journal interface {
	Record(alertType AlertType, message string) error
}
