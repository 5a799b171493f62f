package robot

import (
	"context"
	"fmt"
	"time"

	"scanfleet/sim"
)

// TimestampLayout renders UTC times with microseconds and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Report is the unit a robot sends to the collector each cycle.
type Report struct {
	RobotID        string           `json:"robot_id"`
	Timestamp      string           `json:"timestamp"`
	Location       sim.Location     `json:"location"`
	ScanResults    []sim.ScanResult `json:"scan_results"`
	BatteryLevel   int              `json:"battery_level"`
	NextCheckpoint string           `json:"next_checkpoint"`
}

// FormatTimestamp converts t to the report's timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Sink delivers reports to wherever they are collected.
type Sink interface {
	SendReport(ctx context.Context, r *Report) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, r *Report) error

func (f SinkFunc) SendReport(ctx context.Context, r *Report) error { return f(ctx, r) }

// RobotID formats the identity for a 1-based robot number.
func RobotID(num int) string {
	return fmt.Sprintf("RB-%03d", num)
}
