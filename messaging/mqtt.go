package messaging

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"scanfleet/config"
)

type mqttTransport struct {
	conn mqtt.Client
	qos  byte
}

func dialMQTT(cfg config.MQTTConfig) (*mqttTransport, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	conn := mqtt.NewClient(opts)
	token := conn.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return &mqttTransport{conn: conn, qos: cfg.QoS}, nil
}

func (m *mqttTransport) send(ctx context.Context, topic, _ string, payload []byte) error {
	if !m.conn.IsConnected() {
		return fmt.Errorf("mqtt: broker connection lost")
	}
	token := m.conn.Publish(topic, m.qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mqttTransport) healthy() bool { return m.conn.IsConnected() }

func (m *mqttTransport) close() { m.conn.Disconnect(1000) }
