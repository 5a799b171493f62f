package robotstate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"scanfleet/robot"
)

func TestKeys(t *testing.T) {
	cases := map[string]string{
		onlineKey("RB-001"):  "scanfleet:robot:RB-001:online",
		batteryKey("RB-001"): "scanfleet:robot:RB-001:battery",
		statusKey("RB-001"):  "scanfleet:robot:RB-001:status",
		reportKey("RB-001"):  "scanfleet:robot:RB-001:report",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("key = %q, want %q", got, want)
		}
	}
}

func TestNewUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	u := NewUpdate(&robot.Report{RobotID: "RB-002", BatteryLevel: 64}, now)

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	json.Unmarshal(data, &m)

	if m["type"] != "robot_data" || m["robot_id"] != "RB-002" {
		t.Errorf("update = %v", m)
	}
	if m["battery"] != float64(64) || m["status"] != "active" || m["online"] != true {
		t.Errorf("update = %v", m)
	}
	if m["timestamp"] != "2024-03-01T11:00:00Z" {
		t.Errorf("timestamp = %v, want UTC RFC3339", m["timestamp"])
	}
}

func TestNewSinkDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewSink(client, "", 0)
	if s.channel != DefaultChannel {
		t.Errorf("channel = %q", s.channel)
	}
	if s.ttl != DefaultTTL {
		t.Errorf("ttl = %v", s.ttl)
	}

	s = NewSink(client, "fleet", 5*time.Second)
	if s.channel != "fleet" || s.ttl != 5*time.Second {
		t.Errorf("sink = %+v", s)
	}
}
