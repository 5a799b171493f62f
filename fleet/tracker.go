package fleet

import (
	"sort"
	"sync"
	"time"

	"scanfleet/engine"
	"scanfleet/robot"
	"scanfleet/sim"
)

// RobotStatus is the last known state of one robot, built from fleet events.
type RobotStatus struct {
	RobotID        string       `json:"robot_id"`
	Running        bool         `json:"running"`
	Location       sim.Location `json:"location"`
	BatteryLevel   int          `json:"battery_level"`
	NextCheckpoint string       `json:"next_checkpoint,omitempty"`
	LastReportAt   string       `json:"last_report_at,omitempty"`
	ReportsSent    uint64       `json:"reports_sent"`
	ReportsFailed  uint64       `json:"reports_failed"`
	Failures       uint64       `json:"failures"`
	Recharges      uint64       `json:"recharges"`
	Replenishments uint64       `json:"replenishments"`
	LastError      string       `json:"last_error,omitempty"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Tracker folds fleet events into per-robot status. It is the only view of
// robot state that is safe to read while workers are running.
type Tracker struct {
	mu     sync.RWMutex
	robots map[string]*RobotStatus
	subID  engine.SubscriberID
	bus    *engine.EventBus
}

// NewTracker subscribes to bus and seeds an entry for each id.
func NewTracker(bus *engine.EventBus, ids ...string) *Tracker {
	t := &Tracker{robots: make(map[string]*RobotStatus, len(ids)), bus: bus}
	for _, id := range ids {
		t.robots[id] = &RobotStatus{RobotID: id}
	}
	t.subID = bus.Subscribe(t.handle)
	return t
}

// Close stops listening for events.
func (t *Tracker) Close() {
	t.bus.Unsubscribe(t.subID)
}

func (t *Tracker) handle(evt engine.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch p := evt.Payload.(type) {
	case engine.RobotLifecycleEvent:
		st := t.entry(p.RobotID)
		st.Running = evt.Type == engine.EventRobotStarted
		st.Location = p.Location
		st.UpdatedAt = evt.Timestamp
	case engine.ReportSentEvent:
		st := t.entry(p.RobotID)
		st.ReportsSent++
		t.applyReport(st, evt, p.Report)
	case engine.ReportFailedEvent:
		st := t.entry(p.RobotID)
		st.ReportsFailed++
		st.LastError = p.Error
		t.applyReport(st, evt, p.Report)
	case engine.StockReplenishedEvent:
		t.entry(p.RobotID).Replenishments++
	case engine.BatteryRechargedEvent:
		t.entry(p.RobotID).Recharges++
	case engine.IterationFailedEvent:
		st := t.entry(p.RobotID)
		st.Failures++
		st.LastError = p.Error
		st.UpdatedAt = evt.Timestamp
	}
}

func (t *Tracker) applyReport(st *RobotStatus, evt engine.Event, r *robot.Report) {
	st.UpdatedAt = evt.Timestamp
	if r == nil {
		return
	}
	st.Location = r.Location
	st.BatteryLevel = r.BatteryLevel
	st.NextCheckpoint = r.NextCheckpoint
	st.LastReportAt = r.Timestamp
}

func (t *Tracker) entry(id string) *RobotStatus {
	st, ok := t.robots[id]
	if !ok {
		st = &RobotStatus{RobotID: id}
		t.robots[id] = st
	}
	return st
}

// Get returns a copy of one robot's status.
func (t *Tracker) Get(id string) (RobotStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.robots[id]
	if !ok {
		return RobotStatus{}, false
	}
	return *st, true
}

// Snapshot returns every robot's status ordered by robot ID.
func (t *Tracker) Snapshot() []RobotStatus {
	t.mu.RLock()
	out := make([]RobotStatus, 0, len(t.robots))
	for _, st := range t.robots {
		out = append(out, *st)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].RobotID < out[j].RobotID })
	return out
}

// Running counts robots whose worker loop is active.
func (t *Tracker) Running() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, st := range t.robots {
		if st.Running {
			n++
		}
	}
	return n
}
