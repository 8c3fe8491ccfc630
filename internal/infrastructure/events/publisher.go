// Package events publishes store changes to a message broker.
package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"restauranthub/internal/config"
)

// Message is one store change ready for the wire. Key keeps changes to the same
// entity in order on brokers that partition by key.
type Message struct {
	Key  string
	Type string
	Body []byte
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Message) error { return nil }

func (NopPublisher) Close() error { return nil }

// NewPublisher picks the broker named by cfg.Driver.
func NewPublisher(cfg config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", config.EventsDriverNone:
		return NopPublisher{}, nil
	case config.EventsDriverKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case config.EventsDriverRabbit:
		return NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange, logger)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
