package engine

import (
	"scanfleet/robot"
	"scanfleet/sim"
)

// robotEmitter adapts the EventBus to the robot.EventEmitter interface.
type robotEmitter struct {
	bus *EventBus
}

// RobotEmitter returns a robot.EventEmitter that publishes on bus.
func RobotEmitter(bus *EventBus) robot.EventEmitter {
	return &robotEmitter{bus: bus}
}

func (e *robotEmitter) EmitReportSent(robotID string, r *robot.Report) {
	e.bus.Emit(Event{Type: EventReportSent, Payload: ReportSentEvent{RobotID: robotID, Report: r}})
}

func (e *robotEmitter) EmitReportFailed(robotID string, r *robot.Report, err error) {
	e.bus.Emit(Event{Type: EventReportFailed, Payload: ReportFailedEvent{
		RobotID: robotID, Report: r, Error: err.Error(),
	}})
}

func (e *robotEmitter) EmitStockReplenished(robotID, productID string, level float64) {
	e.bus.Emit(Event{Type: EventStockReplenished, Payload: StockReplenishedEvent{
		RobotID: robotID, ProductID: productID, Level: level,
	}})
}

func (e *robotEmitter) EmitBatteryRecharged(robotID string) {
	e.bus.Emit(Event{Type: EventBatteryRecharged, Payload: BatteryRechargedEvent{RobotID: robotID}})
}

func (e *robotEmitter) EmitIterationFailed(robotID string, err error) {
	e.bus.Emit(Event{Type: EventIterationFailed, Payload: IterationFailedEvent{RobotID: robotID, Error: err.Error()}})
}

// EmitRobotStarted publishes a lifecycle event for a worker that was just launched.
func EmitRobotStarted(bus *EventBus, robotID string, loc sim.Location) {
	bus.Emit(Event{Type: EventRobotStarted, Payload: RobotLifecycleEvent{RobotID: robotID, Location: loc}})
}

// EmitRobotStopped publishes a lifecycle event for a worker whose loop returned.
func EmitRobotStopped(bus *EventBus, robotID string, loc sim.Location) {
	bus.Emit(Event{Type: EventRobotStopped, Payload: RobotLifecycleEvent{RobotID: robotID, Location: loc}})
}
