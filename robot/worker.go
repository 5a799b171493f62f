package robot

import (
	"context"
	"fmt"
	"time"

	"scanfleet/catalog"
	"scanfleet/sim"
)

// LogFunc is the logging callback signature.
type LogFunc func(format string, args ...any)

const (
	DefaultInterval      = 10 * time.Second
	DefaultRecoveryPause = 10 * time.Second
)

// Config holds the parameters needed to create a Worker.
type Config struct {
	Number        int // 1-based, drives identity and start location
	Catalog       catalog.Catalog
	Seed          uint64
	Interval      time.Duration
	RecoveryPause time.Duration
	Sink          Sink
	Emitter       EventEmitter
	LogFunc       LogFunc
	Debug         bool
	Now           func() time.Time
}

// Worker owns one robot's simulation state and drives its report cycle.
// All state is private to the worker; nothing here is shared with other robots.
type Worker struct {
	id     string
	number int

	stock   *sim.StockModel
	scanner *sim.Scanner
	walker  *sim.Walker

	sink     Sink
	emit     EventEmitter
	logFn    LogFunc
	debugFn  LogFunc
	now      func() time.Time
	interval time.Duration
	recovery time.Duration

	cycles uint64
}

// New creates a worker. Its random source is derived from (Seed, Number), so
// two workers built from the same Config produce identical report streams.
func New(c Config) *Worker {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = func(string, ...any) {}
	}
	debugFn := LogFunc(func(string, ...any) {})
	if c.Debug {
		debugFn = logFn
	}
	emit := c.Emitter
	if emit == nil {
		emit = nopEmitter{}
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	recovery := c.RecoveryPause
	if recovery <= 0 {
		recovery = DefaultRecoveryPause
	}

	rng := sim.NewSource(c.Seed, uint64(c.Number))
	return &Worker{
		id:       RobotID(c.Number),
		number:   c.Number,
		stock:    sim.NewStockModel(c.Catalog, rng),
		walker:   sim.NewWalker(c.Number, rng),
		scanner:  sim.NewScanner(c.Catalog, rng),
		sink:     c.Sink,
		emit:     emit,
		logFn:    logFn,
		debugFn:  debugFn,
		now:      now,
		interval: interval,
		recovery: recovery,
	}
}

// ID returns the robot identity, e.g. "RB-001".
func (w *Worker) ID() string { return w.id }

// Number returns the 1-based robot number.
func (w *Worker) Number() int { return w.number }

// Location returns the robot's current position. Not safe to call while Run is active.
func (w *Worker) Location() sim.Location { return w.walker.Location() }

// Cycles returns how many report cycles have completed.
func (w *Worker) Cycles() uint64 { return w.cycles }

// Run executes report cycles until ctx is cancelled. A failed cycle is
// logged and followed by the recovery pause instead of the normal interval.
func (w *Worker) Run(ctx context.Context) {
	w.logFn("robot %s: running from %s (battery=%d%%)", w.id, w.walker.Location(), w.walker.BatteryLevel())
	for {
		if ctx.Err() != nil {
			w.logFn("robot %s: stopped after %d cycles", w.id, w.cycles)
			return
		}
		pause := w.interval
		if _, err := w.Step(ctx); err != nil {
			w.logFn("robot %s: error in report cycle: %v", w.id, err)
			w.emit.EmitIterationFailed(w.id, err)
			pause = w.recovery
		}
		if !sleepCtx(ctx, pause) {
			w.logFn("robot %s: stopped after %d cycles", w.id, w.cycles)
			return
		}
	}
}

// Step runs one report cycle without sleeping: build and send a report,
// then advance location and battery. Transport failures are logged and do
// not fail the cycle; the returned error covers anything unexpected.
func (w *Worker) Step(ctx context.Context) (report *Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	report = w.buildReport()

	if w.sink == nil {
		return report, fmt.Errorf("no sink configured")
	}
	if sendErr := w.sink.SendReport(ctx, report); sendErr != nil {
		w.logFn("robot %s: send report: %v", w.id, sendErr)
		w.emit.EmitReportFailed(w.id, report, sendErr)
	} else {
		w.logFn("robot %s: data sent (scans=%d battery=%d%%)", w.id, len(report.ScanResults), report.BatteryLevel)
		w.emit.EmitReportSent(w.id, report)
	}

	if w.walker.Advance() {
		w.logFn("robot %s: charging battery", w.id)
		w.emit.EmitBatteryRecharged(w.id)
	}
	w.debugFn("robot %s: moved to %s", w.id, w.walker.Location())
	w.cycles++
	return report, nil
}

// buildReport reads location and battery before scanning so the report
// reflects the position the scan was taken from.
func (w *Worker) buildReport() *Report {
	ts := FormatTimestamp(w.now())
	loc := w.walker.Location()

	results, replenished := w.scanner.Scan(w.stock)
	for _, r := range replenished {
		w.logFn("robot %s: stock replenished for %s: %d", w.id, r.ProductID, int(r.Level))
		w.emit.EmitStockReplenished(w.id, r.ProductID, r.Level)
	}

	return &Report{
		RobotID:        w.id,
		Timestamp:      ts,
		Location:       loc,
		ScanResults:    results,
		BatteryLevel:   w.walker.BatteryLevel(),
		NextCheckpoint: loc.Checkpoint(),
	}
}

// sleepCtx waits for d or until ctx is done. It returns false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
