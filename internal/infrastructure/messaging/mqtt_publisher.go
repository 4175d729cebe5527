package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ecommerce-multivendor/internal/domain/event"

	"go.uber.org/zap"
)

// Broker is the part of pkg/mqtt.Client the publisher needs.
type Broker interface {
	Connect() error
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

// MQTTPublisherConfig describes where account events go.
type MQTTPublisherConfig struct {
	TopicPrefix string
	QoS         byte
}

// MQTTPublisher sends each account event as JSON to <prefix>/<event type>.
type MQTTPublisher struct {
	cfg    MQTTPublisherConfig
	broker Broker
	log    *zap.Logger

	mu      sync.Mutex
	started bool
}

func NewMQTTPublisher(cfg MQTTPublisherConfig, broker Broker, log *zap.Logger) (*MQTTPublisher, error) {
	if broker == nil {
		return nil, errors.New("mqtt broker is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.TopicPrefix = strings.TrimSuffix(cfg.TopicPrefix, "/")

	return &MQTTPublisher{
		cfg:    cfg,
		broker: broker,
		log:    log,
	}, nil
}

// Start connects to the broker. Calling it twice is a no-op.
func (p *MQTTPublisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	if err := p.broker.Connect(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	p.started = true
	return nil
}

func (p *MQTTPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.broker.Disconnect()
	p.started = false
}

func (p *MQTTPublisher) Publish(ctx context.Context, evt event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
	}

	topic := p.Topic(evt.Type)
	if err := p.broker.Publish(topic, p.cfg.QoS, false, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	p.log.Debug("Account event published",
		zap.String("topic", topic),
		zap.Uint("user_id", evt.UserID),
	)

	return nil
}

func (p *MQTTPublisher) Topic(t event.Type) string {
	if p.cfg.TopicPrefix == "" {
		return string(t)
	}
	return p.cfg.TopicPrefix + "/" + string(t)
}
