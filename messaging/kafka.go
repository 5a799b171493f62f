package messaging

import (
	"context"
	"fmt"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	"scanfleet/config"
)

type kafkaTransport struct {
	w *kafkago.Writer
}

func newKafkaTransport(cfg config.KafkaConfig) (*kafkaTransport, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	return &kafkaTransport{w: &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}}, nil
}

func (k *kafkaTransport) send(ctx context.Context, topic, key string, payload []byte) error {
	return k.w.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

func (k *kafkaTransport) healthy() bool { return true }

func (k *kafkaTransport) close() {
	if err := k.w.Close(); err != nil {
		log.Printf("kafka writer close: %v", err)
	}
}
