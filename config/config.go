package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"scanfleet/catalog"
)

// Sink backends.
const (
	BackendHTTP  = "http"
	BackendMQTT  = "mqtt"
	BackendKafka = "kafka"
	BackendRedis = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	mu sync.Mutex `yaml:"-"`

	Collector CollectorConfig `yaml:"collector"`
	Fleet     FleetConfig     `yaml:"fleet"`
	Sink      SinkConfig      `yaml:"sink"`
	Messaging MessagingConfig `yaml:"messaging"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`

	// Catalog replaces the built-in product list when non-empty.
	Catalog catalog.Catalog `yaml:"catalog,omitempty"`
}

// CollectorConfig defines the HTTP collector robots report to.
type CollectorConfig struct {
	URL     string        `yaml:"url"     json:"url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// FleetConfig defines how many robots run and how they pace themselves.
type FleetConfig struct {
	Robots         int           `yaml:"robots"          json:"robots"`
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval"`
	StartupDelay   time.Duration `yaml:"startup_delay"   json:"startup_delay"`
	Stagger        time.Duration `yaml:"stagger"         json:"stagger"`
	RecoveryPause  time.Duration `yaml:"recovery_pause"  json:"recovery_pause"`
	StatusInterval time.Duration `yaml:"status_interval" json:"status_interval"`
	Seed           uint64        `yaml:"seed"            json:"seed"` // 0 derives a seed from the clock
}

// SinkConfig selects where reports go.
type SinkConfig struct {
	Backend string `yaml:"backend"` // "http", "mqtt", "kafka" or "redis"
}

// MessagingConfig defines the message-bus sinks.
type MessagingConfig struct {
	MQTT        MQTTConfig  `yaml:"mqtt"`
	Kafka       KafkaConfig `yaml:"kafka"`
	ReportTopic string      `yaml:"report_topic"`
}

// MQTTConfig defines MQTT broker settings.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

// KafkaConfig defines Kafka broker settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

// RedisConfig defines the Redis sink.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Channel  string        `yaml:"channel"`
	TTL      time.Duration `yaml:"ttl"`
}

// WebConfig defines the local status server. It is off unless enabled.
type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Defaults returns a Config with sane defaults.
func Defaults() *Config {
	return &Config{
		Collector: CollectorConfig{
			URL:     "http://backend:3000",
			Timeout: 10 * time.Second,
		},
		Fleet: FleetConfig{
			Robots:         5,
			UpdateInterval: 10 * time.Second,
			StartupDelay:   5 * time.Second,
			Stagger:        time.Second,
			RecoveryPause:  10 * time.Second,
			StatusInterval: 60 * time.Second,
		},
		Sink: SinkConfig{
			Backend: BackendHTTP,
		},
		Messaging: MessagingConfig{
			ReportTopic: "scanfleet/reports",
			MQTT: MQTTConfig{
				Broker:   "localhost",
				Port:     1883,
				ClientID: "scanfleet",
				QoS:      1,
			},
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
			},
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			Channel: "robot_updates",
			TTL:     30 * time.Second,
		},
		Web: WebConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    8090,
		},
	}
}

// Load reads a YAML config file. If the file doesn't exist, defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from environment variables. Any value that is
// present but cannot be parsed is an error; there is no fallback to defaults.
//
//	API_URL          collector base URL
//	ROBOTS_COUNT     number of robots
//	UPDATE_INTERVAL  seconds between reports
//	SIM_SEED         random seed (0 = clock)
//	SINK_BACKEND     http, mqtt, kafka or redis
//	MQTT_BROKER      MQTT broker host
//	KAFKA_BROKERS    comma-separated Kafka brokers
//	REDIS_ADDR       Redis address
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup("API_URL"); ok && v != "" {
		c.Collector.URL = v
	}
	if v, ok := lookup("ROBOTS_COUNT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("ROBOTS_COUNT: %w", err)
		}
		c.Fleet.Robots = n
	}
	if v, ok := lookup("UPDATE_INTERVAL"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("UPDATE_INTERVAL: %w", err)
		}
		c.Fleet.UpdateInterval = time.Duration(n) * time.Second
	}
	if v, ok := lookup("SIM_SEED"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("SIM_SEED: %w", err)
		}
		c.Fleet.Seed = n
	}
	if v, ok := lookup("SINK_BACKEND"); ok && v != "" {
		c.Sink.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("MQTT_BROKER"); ok && v != "" {
		c.Messaging.MQTT.Broker = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Messaging.Kafka.Brokers = splitCSV(v)
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Redis.Address = v
	}
	return nil
}

// Validate checks values that would leave the fleet unable to run.
func (c *Config) Validate() error {
	if c.Fleet.Robots < 1 {
		return fmt.Errorf("fleet.robots must be at least 1, got %d", c.Fleet.Robots)
	}
	if c.Fleet.UpdateInterval <= 0 {
		return fmt.Errorf("fleet.update_interval must be positive, got %s", c.Fleet.UpdateInterval)
	}
	if c.Fleet.RecoveryPause <= 0 {
		return fmt.Errorf("fleet.recovery_pause must be positive, got %s", c.Fleet.RecoveryPause)
	}
	if c.Fleet.StartupDelay < 0 || c.Fleet.Stagger < 0 {
		return fmt.Errorf("fleet.startup_delay and fleet.stagger must not be negative")
	}
	if len(c.Catalog) > 0 {
		if err := c.Catalog.Validate(); err != nil {
			return err
		}
	}
	switch c.Sink.Backend {
	case BackendHTTP:
		if c.Collector.URL == "" {
			return fmt.Errorf("collector.url is required for the http sink")
		}
		if c.Collector.Timeout <= 0 {
			return fmt.Errorf("collector.timeout must be positive, got %s", c.Collector.Timeout)
		}
	case BackendMQTT, BackendKafka:
		if c.Messaging.ReportTopic == "" {
			return fmt.Errorf("messaging.report_topic is required for the %s sink", c.Sink.Backend)
		}
		if c.Sink.Backend == BackendKafka && len(c.Messaging.Kafka.Brokers) == 0 {
			return fmt.Errorf("messaging.kafka.brokers is required for the kafka sink")
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the redis sink")
		}
	default:
		return fmt.Errorf("unknown sink backend: %q", c.Sink.Backend)
	}
	return nil
}

// Products returns the configured catalog, or the built-in one.
func (c *Config) Products() catalog.Catalog {
	if len(c.Catalog) > 0 {
		return c.Catalog
	}
	return catalog.Default()
}

// WebAddr returns host:port for the status server.
func (c *Config) WebAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
