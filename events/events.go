// Package events publishes report lifecycle notifications to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"propertyinsights/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const RoutingKeyReportGenerated = "report.generated"

// Publisher emits report events. Publishing failures never affect the report.
type Publisher interface {
	PublishReportGenerated(ctx context.Context, event models.ReportGeneratedEvent) error
	Close() error
}

// NopPublisher discards events; used when RABBITMQ_URL is unset.
type NopPublisher struct{}

func (NopPublisher) PublishReportGenerated(context.Context, models.ReportGeneratedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// RabbitConfig describes the exchange events are published to.
type RabbitConfig struct {
	URL          string
	ExchangeName string
	ExchangeType string
	Durable      bool
}

func (c RabbitConfig) Validate() error {
	if c.URL == "" {
		return eris.New("events: RabbitMQ URL is required")
	}
	if c.ExchangeName == "" {
		return eris.New("events: exchange name is required")
	}
	return nil
}

// RabbitPublisher publishes JSON events on a declared exchange.
type RabbitPublisher struct {
	config     RabbitConfig
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	logger     *zap.Logger
}

// NewRabbitPublisher dials RabbitMQ and declares the exchange.
func NewRabbitPublisher(cfg RabbitConfig, logger *zap.Logger) (*RabbitPublisher, error) {
	if cfg.ExchangeType == "" {
		cfg.ExchangeType = amqp.ExchangeTopic
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "events: failed to dial RabbitMQ")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "events: failed to open a channel")
	}

	logger.Info("Declaring events exchange",
		zap.String("exchange", cfg.ExchangeName),
		zap.String("type", cfg.ExchangeType),
		zap.Bool("durable", cfg.Durable),
	)
	if err := ch.ExchangeDeclare(cfg.ExchangeName, cfg.ExchangeType, cfg.Durable, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, eris.Wrapf(err, "events: failed to declare exchange %q", cfg.ExchangeName)
	}

	return &RabbitPublisher{config: cfg, connection: conn, channel: ch, logger: logger}, nil
}

func (p *RabbitPublisher) PublishReportGenerated(ctx context.Context, event models.ReportGeneratedEvent) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return eris.New("events: publisher is not connected")
	}
	if err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, RoutingKeyReportGenerated, false, false, msg); err != nil {
		return eris.Wrap(err, "events: failed to publish message")
	}
	p.logger.Debug("Published report event", zap.Int64("report_id", event.ReportID))
	return nil
}

func buildPublishing(event models.ReportGeneratedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, eris.Wrap(err, "events: encode event")
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         RoutingKeyReportGenerated,
		Body:         body,
	}, nil
}

// Close shuts the channel then the connection, returning the first error.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("Error closing events channel", zap.Error(err))
			firstErr = err
		}
		p.channel = nil
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			p.logger.Warn("Error closing events connection", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
		p.connection = nil
	}
	return firstErr
}
