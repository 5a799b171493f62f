package messaging

import (
	"context"
	"fmt"

	"scanfleet/protocol"
	"scanfleet/robot"
)

// Publisher is the part of Client the report sink needs.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Sink publishes robot reports as protocol envelopes on a message bus.
type Sink struct {
	pub   Publisher
	topic string
}

// NewSink creates a report sink that publishes to topic.
func NewSink(pub Publisher, topic string) *Sink {
	return &Sink{pub: pub, topic: topic}
}

// ReportEnvelope wraps r in a robot.report envelope addressed to the collector.
func ReportEnvelope(r *robot.Report) (*protocol.Envelope, error) {
	return protocol.NewEnvelope(protocol.TypeRobotReport,
		protocol.Address{Role: protocol.RoleRobot, Node: r.RobotID},
		protocol.Address{Role: protocol.RoleCollector},
		r,
	)
}

// SendReport implements robot.Sink.
func (s *Sink) SendReport(ctx context.Context, r *robot.Report) error {
	env, err := ReportEnvelope(r)
	if err != nil {
		return fmt.Errorf("build envelope: %w", err)
	}
	data, err := env.Encode()
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := s.pub.Publish(ctx, s.topic, r.RobotID, data); err != nil {
		return fmt.Errorf("publish %s: %w", s.topic, err)
	}
	return nil
}
