package engine

import (
	"errors"
	"testing"

	"scanfleet/robot"
	"scanfleet/sim"
)

func TestEventBusFilterAndOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string

	bus.Subscribe(func(evt Event) { order = append(order, "all:"+evt.Type.String()) })
	bus.SubscribeTypes(func(evt Event) { order = append(order, "sent:"+evt.Type.String()) }, EventReportSent)

	bus.Emit(Event{Type: EventReportSent})
	bus.Emit(Event{Type: EventBatteryRecharged})

	want := []string{"all:report-sent", "sent:report-sent", "all:battery-recharged"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	id := bus.Subscribe(func(Event) { calls++ })
	if bus.Len() != 1 {
		t.Fatalf("len = %d, want 1", bus.Len())
	}
	bus.Unsubscribe(id)
	bus.Unsubscribe(id)
	bus.Emit(Event{Type: EventReportSent})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("len = %d, want 0", bus.Len())
	}
}

func TestEventBusStampsTimestamp(t *testing.T) {
	bus := NewEventBus()
	var got Event
	bus.Subscribe(func(evt Event) { got = evt })
	bus.Emit(Event{Type: EventRobotStarted})
	if got.Timestamp.IsZero() {
		t.Error("timestamp should be set on emit")
	}
}

func TestRobotEmitterPayloads(t *testing.T) {
	bus := NewEventBus()
	var events []Event
	bus.Subscribe(func(evt Event) { events = append(events, evt) })

	emit := RobotEmitter(bus)
	report := &robot.Report{RobotID: "RB-001"}
	emit.EmitReportSent("RB-001", report)
	emit.EmitReportFailed("RB-001", report, errors.New("timeout"))
	emit.EmitStockReplenished("RB-001", "TEL-4567", 90)
	emit.EmitBatteryRecharged("RB-001")
	emit.EmitIterationFailed("RB-001", errors.New("panic: boom"))
	EmitRobotStarted(bus, "RB-001", sim.Location{Zone: "A", Row: 3, Shelf: 2})

	if len(events) != 6 {
		t.Fatalf("events = %d, want 6", len(events))
	}
	if p := events[0].Payload.(ReportSentEvent); p.Report != report {
		t.Error("sent payload should carry the report")
	}
	if p := events[1].Payload.(ReportFailedEvent); p.Error != "timeout" {
		t.Errorf("failed error = %q, want timeout", p.Error)
	}
	if p := events[2].Payload.(StockReplenishedEvent); p.ProductID != "TEL-4567" || p.Level != 90 {
		t.Errorf("replenished payload = %+v", p)
	}
	if events[3].Type != EventBatteryRecharged {
		t.Errorf("type = %v, want battery-recharged", events[3].Type)
	}
	if p := events[4].Payload.(IterationFailedEvent); p.Error != "panic: boom" {
		t.Errorf("iteration error = %q", p.Error)
	}
	if p := events[5].Payload.(RobotLifecycleEvent); p.Location.Zone != "A" {
		t.Errorf("lifecycle payload = %+v", p)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventIterationFailed.String() != "iteration-failed" {
		t.Errorf("String() = %q", EventIterationFailed.String())
	}
	if EventType(999).String() != "unknown" {
		t.Errorf("String() = %q, want unknown", EventType(999).String())
	}
}
