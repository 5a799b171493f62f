package protocol

import (
	"strings"
	"testing"
	"time"
)

type testPayload struct {
	RobotID string `json:"robot_id"`
	Battery int    `json:"battery_level"`
}

func TestEnvelopeEncodeDecode(t *testing.T) {
	src := Address{Role: RoleRobot, Node: "RB-001"}
	dst := Address{Role: RoleCollector}

	env, err := NewEnvelope(TypeRobotReport, src, dst, &testPayload{RobotID: "RB-001", Battery: 88})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if env.Version != Version {
		t.Errorf("version = %d, want %d", env.Version, Version)
	}
	if env.ID == "" {
		t.Error("ID should not be empty")
	}
	if env.Src != src {
		t.Errorf("src = %+v, want %+v", env.Src, src)
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.ID != env.ID {
		t.Errorf("decoded id = %q, want %q", decoded.ID, env.ID)
	}
	if decoded.Type != TypeRobotReport {
		t.Errorf("decoded type = %q", decoded.Type)
	}

	var p testPayload
	if err := decoded.DecodePayload(&p); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if p.RobotID != "RB-001" || p.Battery != 88 {
		t.Errorf("payload = %+v", p)
	}
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	a, _ := NewEnvelope(TypeRobotReport, Address{Role: RoleRobot}, Address{Role: RoleCollector}, nil)
	b, _ := NewEnvelope(TypeRobotReport, Address{Role: RoleRobot}, Address{Role: RoleCollector}, nil)
	if a.ID == b.ID {
		t.Errorf("ids should differ, both %q", a.ID)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected error for invalid json")
	}
	_, err := Decode([]byte(`{"v":99,"type":"robot.report"}`))
	if err == nil || !strings.Contains(err.Error(), "99") {
		t.Errorf("err = %v, want unsupported version", err)
	}
}

func TestExpiry(t *testing.T) {
	env, err := NewEnvelope(TypeRobotReport, Address{Role: RoleRobot}, Address{Role: RoleCollector}, nil)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if got := env.ExpiresAt.Sub(env.Timestamp); got != DefaultTTLFor(TypeRobotReport) {
		t.Errorf("ttl = %v, want %v", got, DefaultTTLFor(TypeRobotReport))
	}
	if IsExpired(env, env.Timestamp.Add(time.Second)) {
		t.Error("fresh envelope reported expired")
	}
	if !IsExpired(env, env.Timestamp.Add(2*time.Minute)) {
		t.Error("stale envelope not reported expired")
	}
	if IsExpired(&Envelope{}, time.Now()) {
		t.Error("zero expiry should never expire")
	}
	if DefaultTTLFor("unknown.type") != FallbackTTL {
		t.Errorf("fallback ttl = %v", DefaultTTLFor("unknown.type"))
	}
}
