package sim

import (
	"fmt"
	"math/rand/v2"
)

// Zones is the cycle a robot walks through once it runs out of rows.
var Zones = []string{"A", "B", "C", "D", "E"}

const (
	ShelvesPerRow = 10
	RowsPerZone   = 20

	// RechargeBelow triggers an instant recharge to FullBattery.
	RechargeBelow = 20.0
	FullBattery   = 100.0

	drainMin = 0.5
	drainMax = 1.5

	startBatteryMin = 85
	startBatteryMax = 100
)

// Location is a zone/row/shelf position in the warehouse grid.
type Location struct {
	Zone  string `json:"zone"`
	Row   int    `json:"row"`
	Shelf int    `json:"shelf"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s-%d-%d", l.Zone, l.Row, l.Shelf)
}

// Checkpoint is the hint sent with a report: the same zone and shelf with
// the row bumped by one. It is a preview, not the walker's actual next stop.
func (l Location) Checkpoint() string {
	return fmt.Sprintf("%s-%d-%d", l.Zone, l.Row+1, l.Shelf)
}

// StartLocation returns the initial position for a 1-based robot number.
// Rows and shelves are not wrapped; the walker corrects them on its first carry.
func StartLocation(robotNum int) Location {
	zi := (robotNum - 1) % len(Zones)
	if zi < 0 {
		zi += len(Zones)
	}
	return Location{Zone: Zones[zi], Row: robotNum * 3, Shelf: robotNum * 2}
}

// Walker advances a robot through the grid and drains its battery.
type Walker struct {
	loc     Location
	battery float64
	rng     *rand.Rand
}

// NewWalker places robot robotNum at its start location with a random
// starting charge between 85 and 100.
func NewWalker(robotNum int, rng *rand.Rand) *Walker {
	battery := float64(uniformInt(rng, startBatteryMin, startBatteryMax))
	return NewWalkerAt(StartLocation(robotNum), battery, rng)
}

// NewWalkerAt builds a walker at an explicit position and charge.
func NewWalkerAt(loc Location, battery float64, rng *rand.Rand) *Walker {
	return &Walker{loc: loc, battery: battery, rng: rng}
}

// Advance moves one shelf forward, carrying into row and then zone, and
// drains the battery. It reports whether the battery was recharged.
func (w *Walker) Advance() (recharged bool) {
	w.loc.Shelf++
	if w.loc.Shelf > ShelvesPerRow {
		w.loc.Shelf = 1
		w.loc.Row++
		if w.loc.Row > RowsPerZone {
			w.loc.Row = 1
			w.loc.Zone = nextZone(w.loc.Zone)
		}
	}

	w.battery -= uniform(w.rng, drainMin, drainMax)
	if w.battery < RechargeBelow {
		w.battery = FullBattery
		return true
	}
	return false
}

// Location returns the current position.
func (w *Walker) Location() Location {
	return w.loc
}

// Battery returns the raw charge.
func (w *Walker) Battery() float64 {
	return w.battery
}

// BatteryLevel returns the charge truncated to an integer percentage in [0, 100].
func (w *Walker) BatteryLevel() int {
	lvl := int(w.battery)
	if lvl < 0 {
		return 0
	}
	if lvl > 100 {
		return 100
	}
	return lvl
}

func nextZone(zone string) string {
	for i, z := range Zones {
		if z == zone {
			return Zones[(i+1)%len(Zones)]
		}
	}
	return Zones[0]
}
