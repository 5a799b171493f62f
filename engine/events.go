package engine

import (
	"time"

	"scanfleet/robot"
	"scanfleet/sim"
)

// EventType identifies the kind of fleet event.
type EventType int

const (
	// Lifecycle events
	EventRobotStarted EventType = iota + 1
	EventRobotStopped

	// Report events
	EventReportSent
	EventReportFailed

	// Simulation events
	EventStockReplenished
	EventBatteryRecharged

	// Failure recovery
	EventIterationFailed
)

var eventNames = map[EventType]string{
	EventRobotStarted:     "robot-started",
	EventRobotStopped:     "robot-stopped",
	EventReportSent:       "report-sent",
	EventReportFailed:     "report-failed",
	EventStockReplenished: "stock-replenished",
	EventBatteryRecharged: "battery-recharged",
	EventIterationFailed:  "iteration-failed",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "unknown"
}

// Event is the envelope carried by the EventBus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// RobotLifecycleEvent is emitted when a worker starts or stops.
type RobotLifecycleEvent struct {
	RobotID  string       `json:"robot_id"`
	Location sim.Location `json:"location"`
}

// ReportSentEvent is emitted after the sink accepted a report.
type ReportSentEvent struct {
	RobotID string        `json:"robot_id"`
	Report  *robot.Report `json:"report"`
}

// ReportFailedEvent is emitted when the sink rejected a report or could not be reached.
type ReportFailedEvent struct {
	RobotID string        `json:"robot_id"`
	Report  *robot.Report `json:"report"`
	Error   string        `json:"error"`
}

// StockReplenishedEvent is emitted when a robot's stock model restocks a product.
type StockReplenishedEvent struct {
	RobotID   string  `json:"robot_id"`
	ProductID string  `json:"product_id"`
	Level     float64 `json:"level"`
}

// BatteryRechargedEvent is emitted when a robot's battery is reset to full.
type BatteryRechargedEvent struct {
	RobotID string `json:"robot_id"`
}

// IterationFailedEvent is emitted when a report cycle failed unexpectedly.
type IterationFailedEvent struct {
	RobotID string `json:"robot_id"`
	Error   string `json:"error"`
}
