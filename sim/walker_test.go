package sim

import "testing"

func TestWalkerShelfCarriesIntoRow(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "B", Row: 5, Shelf: 10}, 90, NewSource(1, 1))
	w.Advance()
	want := Location{Zone: "B", Row: 6, Shelf: 1}
	if got := w.Location(); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestWalkerRowCarriesIntoZone(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "B", Row: 20, Shelf: 10}, 90, NewSource(1, 1))
	w.Advance()
	want := Location{Zone: "C", Row: 1, Shelf: 1}
	if got := w.Location(); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestWalkerZoneWrapsToA(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "E", Row: 20, Shelf: 10}, 90, NewSource(1, 1))
	w.Advance()
	want := Location{Zone: "A", Row: 1, Shelf: 1}
	if got := w.Location(); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestWalkerPlainStep(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "D", Row: 7, Shelf: 3}, 90, NewSource(1, 1))
	w.Advance()
	want := Location{Zone: "D", Row: 7, Shelf: 4}
	if got := w.Location(); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestWalkerRowOnlyCheckedOnCarry(t *testing.T) {
	// Robots can start past the grid edge; only a shelf carry normalizes the row.
	w := NewWalkerAt(Location{Zone: "A", Row: 21, Shelf: 4}, 90, NewSource(1, 1))
	w.Advance()
	want := Location{Zone: "A", Row: 21, Shelf: 5}
	if got := w.Location(); got != want {
		t.Errorf("location = %+v, want %+v", got, want)
	}
}

func TestWalkerBatteryRecharge(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "A", Row: 1, Shelf: 1}, 19.5, NewSource(1, 1))
	if recharged := w.Advance(); !recharged {
		t.Error("expected recharge")
	}
	if w.Battery() != FullBattery {
		t.Errorf("battery = %f, want %f", w.Battery(), FullBattery)
	}
	if w.BatteryLevel() != 100 {
		t.Errorf("battery level = %d, want 100", w.BatteryLevel())
	}
}

func TestWalkerBatteryDrain(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "A", Row: 1, Shelf: 1}, 80, NewSource(2, 2))
	if recharged := w.Advance(); recharged {
		t.Error("unexpected recharge")
	}
	b := w.Battery()
	if b > 79.5 || b <= 78.5 {
		t.Errorf("battery = %f, want in (78.5, 79.5]", b)
	}
	if w.BatteryLevel() != int(b) {
		t.Errorf("battery level = %d, want %d", w.BatteryLevel(), int(b))
	}
}

func TestWalkerBatteryNeverReportedBelowZero(t *testing.T) {
	w := NewWalkerAt(Location{Zone: "A", Row: 1, Shelf: 1}, -3, NewSource(1, 1))
	if w.BatteryLevel() != 0 {
		t.Errorf("battery level = %d, want 0", w.BatteryLevel())
	}
}

func TestWalkerLongRunStaysInGrid(t *testing.T) {
	w := NewWalker(3, NewSource(8, 3))
	for i := 0; i < 10000; i++ {
		w.Advance()
		loc := w.Location()
		if loc.Shelf < 1 || loc.Shelf > ShelvesPerRow {
			t.Fatalf("step %d: shelf %d out of range", i, loc.Shelf)
		}
		if w.BatteryLevel() < int(RechargeBelow) || w.BatteryLevel() > 100 {
			t.Fatalf("step %d: battery level %d out of range", i, w.BatteryLevel())
		}
	}
}

func TestStartLocation(t *testing.T) {
	cases := []struct {
		num  int
		want Location
	}{
		{1, Location{Zone: "A", Row: 3, Shelf: 2}},
		{2, Location{Zone: "B", Row: 6, Shelf: 4}},
		{5, Location{Zone: "E", Row: 15, Shelf: 10}},
		{6, Location{Zone: "A", Row: 18, Shelf: 12}},
	}
	for _, c := range cases {
		if got := StartLocation(c.num); got != c.want {
			t.Errorf("StartLocation(%d) = %+v, want %+v", c.num, got, c.want)
		}
	}
}

func TestNewWalkerStartingBattery(t *testing.T) {
	for i := 1; i <= 50; i++ {
		w := NewWalker(i, NewSource(uint64(i), 0))
		if w.Battery() < 85 || w.Battery() > 100 {
			t.Errorf("robot %d: starting battery %f, want 85..100", i, w.Battery())
		}
	}
}

func TestCheckpointIsPreviewNotNextStop(t *testing.T) {
	start := Location{Zone: "C", Row: 7, Shelf: 4}
	w := NewWalkerAt(start, 90, NewSource(1, 1))
	hint := start.Checkpoint()
	if hint != "C-8-4" {
		t.Errorf("checkpoint = %q, want %q", hint, "C-8-4")
	}
	w.Advance()
	next := w.Location()
	if next.Row == start.Row+1 {
		t.Errorf("next row = %d, expected it to differ from checkpoint row", next.Row)
	}
	if hint == next.String() {
		t.Errorf("checkpoint %q should not match actual next location", hint)
	}

	// Across a shelf carry the row matches but the shelf does not.
	carry := Location{Zone: "C", Row: 7, Shelf: 10}
	w = NewWalkerAt(carry, 90, NewSource(1, 1))
	w.Advance()
	if carry.Checkpoint() == w.Location().String() {
		t.Errorf("checkpoint %q should not match actual next location %q", carry.Checkpoint(), w.Location())
	}
}
