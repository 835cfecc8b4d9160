package mqtt

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/itohio/picotemp/pkg/config"
	"github.com/itohio/picotemp/pkg/output"
	"github.com/itohio/picotemp/pkg/pico"
)

const (
	// defaults
	DefaultBroker   = "tcp://localhost:1883"
	DefaultClientID = "picotemp-monitor"
	DefaultTopic    = "picotemp/temperature"
)

type MQTTOutput struct {
	client mqtt.Client
	topic  string
}

func NewMQTT(cfg config.MQTTConfig) (output.Output, error) {
	broker := cfg.Broker
	if broker == "" {
		broker = DefaultBroker
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &MQTTOutput{client: client, topic: topic}, nil
}

func (m *MQTTOutput) Publish(readings []pico.Reading) error {
	for _, r := range readings {
		b, err := payloadFor(r)
		if err != nil {
			return err
		}
		token := m.client.Publish(m.topic, 0, false, b)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}
	return nil
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}

// payloadFor builds the JSON payload for one reading. Timestamps go out
// in unix microseconds, matching the serial feed resolution.
func payloadFor(r pico.Reading) ([]byte, error) {
	payload := map[string]interface{}{"celsius": r.Celsius, "ts": r.Time.UnixMicro()}
	return json.Marshal(payload)
}
