// Package watcher - processor.go drives the per-line processing pipeline.
//
// DESIGN: Single logical thread. Lines are consumed and fully processed one
// at a time in arrival order, so the window, the failover detector and the
// cooldown ledger need no locking. The only blocking point is waiting for
// the next line; notification is synchronous but bounded by the notifier's
// own short timeout.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opspulse/pool-watcher/internal/config"
	"github.com/opspulse/pool-watcher/internal/logline"
	"github.com/opspulse/pool-watcher/internal/monitoring"
)

const (
	// idlePollInterval is how long the loop sleeps when the source has no
	// new line available.
	idlePollInterval = 100 * time.Millisecond

	// minFillRatio guards the error-rate alert against a half-warmed
	// window right after startup. Kept as a constant; making it
	// configurable is a candidate for later if a deployment ever needs it.
	minFillRatio = 0.5
)

// LineSource yields raw log lines in order. NextLine returns ok=false when
// no line is available yet (the caller idles and retries); a non-nil error
// ends the run. io.EOF marks a finite source as drained and is not an
// error.
type LineSource interface {
	NextLine() (line string, ok bool, err error)
}

// Processor orchestrates parser, window, failover detector and alert gate
// over a stream of log lines.
type Processor struct {
	cfg      config.Config
	window   *Window
	detector *FailoverDetector
	gate     *Gate
	notifier Notifier
	journal  Journal
	metrics  *monitoring.MetricsCollector

	rateElevated bool // error-rate condition held on the previous record
}

// NewProcessor wires the stateful components from one immutable config.
// journal may be nil.
func NewProcessor(cfg config.Config, notifier Notifier, journal Journal, metrics *monitoring.MetricsCollector) *Processor {
	return &Processor{
		cfg:      cfg,
		window:   NewWindow(cfg.WindowSize),
		detector: NewFailoverDetector(),
		gate:     NewGate(cfg.Cooldown(), cfg.MaintenanceMode, notifier != nil && cfg.NotifierConfigured()),
		notifier: notifier,
		journal:  journal,
		metrics:  metrics,
	}
}

// Run consumes lines from src until ctx is cancelled or the source fails.
// A source error other than io.EOF is unclassified and propagates to the
// caller as fatal; already-buffered window state is left intact either way.
func (p *Processor) Run(ctx context.Context, src LineSource) error {
	p.dispatch(ctx, AlertInfo, "Log watcher started")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, ok, err := src.NextLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("log source: %w", err)
		}
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(idlePollInterval):
			}
			continue
		}

		p.ProcessLine(ctx, line)
	}
}

// ProcessLine runs one raw line through the full pipeline.
// Unparseable or pool-less lines are invisible to both detectors: they
// cannot be attributed to either backend, so they must not skew the
// window statistics.
func (p *Processor) ProcessLine(ctx context.Context, line string) {
	p.metrics.RecordLine()

	rec, err := logline.Parse(line)
	if err != nil {
		p.metrics.RecordParseFailure()
		log.Debug().Str("line", line).Msg("dropping unparsable line")
		return
	}
	if rec.Pool == logline.PoolUnknown {
		p.metrics.RecordUnattributed()
		log.Debug().Int("status", rec.Status).Msg("dropping unattributed line")
		return
	}

	if ev, fired := p.detector.Observe(rec.Pool); fired {
		log.Info().Str("from", ev.From).Str("to", ev.To).Msg("failover detected")
		p.dispatch(ctx, AlertFailover,
			fmt.Sprintf("Failover detected! From %s to %s", ev.From, ev.To))
	}

	p.window.Append(rec)
	p.evaluateErrorRate(ctx)
}

// evaluateErrorRate checks the trailing window after each append and emits
// error-rate and recovery candidates through the gate.
func (p *Processor) evaluateErrorRate(ctx context.Context) {
	if p.window.Len() < p.minFill() {
		return
	}

	rate := p.window.ErrorRatePercent()
	elevated := rate > p.cfg.ErrorRateThresholdPercent

	switch {
	case elevated:
		p.dispatch(ctx, AlertErrorRate, fmt.Sprintf(
			"High error rate: %.2f%% over last %d requests (%d server errors, threshold %.2f%%)",
			rate, p.window.Len(), p.window.ServerErrorCount(), p.cfg.ErrorRateThresholdPercent))
	case p.rateElevated:
		// condition just cleared
		p.dispatch(ctx, AlertRecovery, fmt.Sprintf(
			"Error rate recovered: %.2f%% over last %d requests (threshold %.2f%%)",
			rate, p.window.Len(), p.cfg.ErrorRateThresholdPercent))
	}

	p.rateElevated = elevated
}

func (p *Processor) minFill() int {
	return int(minFillRatio * float64(p.window.Cap()))
}

// dispatch passes a candidate alert through the gate and, on success,
// hands it to the notifier. Notifier failures are logged and swallowed;
// delivery is at-most-once and must never stall or kill the stream loop.
func (p *Processor) dispatch(ctx context.Context, alertType AlertType, message string) {
	if !p.gate.TryAcquire(alertType, time.Now()) {
		p.metrics.RecordAlertSuppressed()
		log.Debug().Str("type", string(alertType)).Msg("alert suppressed")
		return
	}
	p.metrics.RecordAlertDispatched()

	if err := p.notifier.Send(ctx, alertType, message); err != nil {
		p.metrics.RecordNotifyFailure()
		log.Error().Err(err).Str("type", string(alertType)).Msg("notification failed")
		return
	}
	log.Info().Str("type", string(alertType)).Str("message", message).Msg("alert sent")

	if p.journal != nil {
		if err := p.journal.Record(alertType, message); err != nil {
			log.Error().Err(err).Msg("alert journal write failed")
		}
	}
}
