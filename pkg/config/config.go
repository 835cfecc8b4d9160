package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the monitor application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Trend   TrendConfig   `yaml:"trend"`
	Outputs OutputsConfig `yaml:"outputs"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig selects the station's serial feed.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// TrendConfig shapes the rolling history view.
type TrendConfig struct {
	WindowSeconds float64 `yaml:"window_seconds"`
	MaxPoints     int     `yaml:"max_points"` // cap on points handed to the plot
}

// OutputsConfig enables reading fan-out targets.
type OutputsConfig struct {
	Console bool       `yaml:"console"`
	MQTT    MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig configures the MQTT publisher.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MirrorConfig points at an optional panel on a host I2C bus that shows
// the same frames as the station's own display.
type MirrorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Bus     string `yaml:"bus"` // empty selects the platform default bus
	Address uint8  `yaml:"address"`
}

// MockConfig drives the synthetic station.
type MockConfig struct {
	BiasC  float64       `yaml:"bias_c"`  // steady-state temperature (°C)
	NoiseC float64       `yaml:"noise_c"` // peak noise (°C)
	Period time.Duration `yaml:"period"`  // time between readings
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0", // Pico USB CDC on Linux; "COM3" style on Windows
			Baud: 115200,
		},
		Trend: TrendConfig{
			WindowSeconds: 300,
			MaxPoints:     600,
		},
		Outputs: OutputsConfig{
			Console: true,
			MQTT: MQTTConfig{
				Enabled:  false,
				Broker:   "tcp://localhost:1883",
				Topic:    "picotemp/temperature",
				ClientID: "picotemp-monitor",
			},
		},
		Mirror: MirrorConfig{
			Enabled: false,
			Address: 0x3C,
		},
		Mock: MockConfig{
			BiasC:  24.0,
			NoiseC: 0.3,
			Period: 500 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.Trend.WindowSeconds == 0 {
		c.Trend.WindowSeconds = def.Trend.WindowSeconds
	}
	if c.Trend.MaxPoints == 0 {
		c.Trend.MaxPoints = def.Trend.MaxPoints
	}

	if c.Outputs.MQTT.Broker == "" {
		c.Outputs.MQTT.Broker = def.Outputs.MQTT.Broker
	}
	if c.Outputs.MQTT.Topic == "" {
		c.Outputs.MQTT.Topic = def.Outputs.MQTT.Topic
	}
	if c.Outputs.MQTT.ClientID == "" {
		c.Outputs.MQTT.ClientID = def.Outputs.MQTT.ClientID
	}

	if c.Mirror.Address == 0 {
		c.Mirror.Address = def.Mirror.Address
	}

	if c.Mock.Period == 0 {
		c.Mock.Period = def.Mock.Period
	}
}
