package messaging

import (
	"context"
	"fmt"
	"sync"

	"scanfleet/config"
)

// transport is one connected bus backend.
type transport interface {
	send(ctx context.Context, topic, key string, payload []byte) error
	healthy() bool
	close()
}

// Client publishes to whichever bus the sink backend names. It is safe for
// concurrent use by every robot in the fleet.
type Client struct {
	mu      sync.RWMutex
	backend string
	cfg     *config.MessagingConfig
	t       transport
}

// NewClient creates an unconnected client for backend ("mqtt" or "kafka").
func NewClient(backend string, cfg *config.MessagingConfig) *Client {
	return &Client{backend: backend, cfg: cfg}
}

// Connect dials the broker. MQTT blocks until the broker accepts the
// session; Kafka connects lazily on the first write.
func (c *Client) Connect() error {
	var (
		t   transport
		err error
	)
	switch c.backend {
	case config.BackendMQTT:
		t, err = dialMQTT(c.cfg.MQTT)
	case config.BackendKafka:
		t, err = newKafkaTransport(c.cfg.Kafka)
	default:
		return fmt.Errorf("unknown messaging backend: %s", c.backend)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.t != nil {
		c.t.close()
	}
	c.t = t
	c.mu.Unlock()
	return nil
}

// Publish implements Publisher. Kafka partitions on key so one robot's
// reports stay ordered; MQTT ignores it.
func (c *Client) Publish(ctx context.Context, topic, key string, payload []byte) error {
	c.mu.RLock()
	t := c.t
	c.mu.RUnlock()
	if t == nil {
		return fmt.Errorf("%s: not connected", c.backend)
	}
	return t.send(ctx, topic, key, payload)
}

// IsConnected reports whether the backend can currently take messages.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t != nil && c.t.healthy()
}

// Close releases the connection. The client can be reconnected afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t != nil {
		c.t.close()
		c.t = nil
	}
}
