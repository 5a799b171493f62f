package robotstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scanfleet/robot"
)

// DefaultTTL is how long a robot's presence keys live without a fresh report.
const DefaultTTL = 30 * time.Second

// DefaultChannel is the pub/sub channel dashboards listen on.
const DefaultChannel = "robot_updates"

const allRobotsKey = "scanfleet:robots"

func onlineKey(robotID string) string {
	return fmt.Sprintf("scanfleet:robot:%s:online", robotID)
}

func batteryKey(robotID string) string {
	return fmt.Sprintf("scanfleet:robot:%s:battery", robotID)
}

func statusKey(robotID string) string {
	return fmt.Sprintf("scanfleet:robot:%s:status", robotID)
}

func reportKey(robotID string) string {
	return fmt.Sprintf("scanfleet:robot:%s:report", robotID)
}

// Update is published on the channel after every report.
type Update struct {
	Type      string `json:"type"`
	RobotID   string `json:"robot_id"`
	Battery   int    `json:"battery"`
	Status    string `json:"status"`
	Online    bool   `json:"online"`
	Timestamp string `json:"timestamp"`
}

// NewUpdate builds the channel message for r.
func NewUpdate(r *robot.Report, now time.Time) Update {
	return Update{
		Type:      "robot_data",
		RobotID:   r.RobotID,
		Battery:   r.BatteryLevel,
		Status:    "active",
		Online:    true,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// State is what the store holds for one robot.
type State struct {
	RobotID string        `json:"robot_id"`
	Online  bool          `json:"online"`
	Battery int           `json:"battery"`
	Status  string        `json:"status"`
	Last    *robot.Report `json:"last_report,omitempty"`
}

// Sink mirrors robot presence into Redis and announces each report on a
// pub/sub channel. Presence keys expire after ttl so a silent robot drops
// out on its own.
type Sink struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	now     func() time.Time
}

// NewSink creates a Redis sink. Empty channel and zero ttl take the defaults.
func NewSink(client *redis.Client, channel string, ttl time.Duration) *Sink {
	if channel == "" {
		channel = DefaultChannel
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sink{client: client, channel: channel, ttl: ttl, now: time.Now}
}

// Ping checks the connection.
func (s *Sink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SendReport implements robot.Sink.
func (s *Sink) SendReport(ctx context.Context, r *robot.Report) error {
	report, err := json.Marshal(r)
	if err != nil {
		return err
	}
	update, err := json.Marshal(NewUpdate(r, s.now()))
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, onlineKey(r.RobotID), "true", s.ttl)
	pipe.Set(ctx, batteryKey(r.RobotID), r.BatteryLevel, s.ttl)
	pipe.Set(ctx, statusKey(r.RobotID), "active", s.ttl)
	pipe.Set(ctx, reportKey(r.RobotID), report, s.ttl)
	pipe.SAdd(ctx, allRobotsKey, r.RobotID)
	pipe.Publish(ctx, s.channel, update)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis report %s: %w", r.RobotID, err)
	}
	return nil
}

// GetState reads back a robot's presence. A robot whose keys expired is
// reported offline with no last report.
func (s *Sink) GetState(ctx context.Context, robotID string) (*State, error) {
	st := &State{RobotID: robotID, Status: "offline"}

	online, err := s.client.Get(ctx, onlineKey(robotID)).Result()
	if err == redis.Nil {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	st.Online = online == "true"

	if st.Battery, err = s.client.Get(ctx, batteryKey(robotID)).Int(); err != nil && err != redis.Nil {
		return nil, err
	}
	if status, err := s.client.Get(ctx, statusKey(robotID)).Result(); err == nil {
		st.Status = status
	} else if err != redis.Nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, reportKey(robotID)).Bytes()
	if err == nil {
		var last robot.Report
		if err := json.Unmarshal(data, &last); err != nil {
			return nil, err
		}
		st.Last = &last
	} else if err != redis.Nil {
		return nil, err
	}
	return st, nil
}

// RobotIDs returns every robot that has ever reported.
func (s *Sink) RobotIDs(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, allRobotsKey).Result()
}
