package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"movie-ticketing/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends domain events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}

// NewPublisher returns an AMQP publisher, or a logging no-op when no broker URL is set.
func NewPublisher(cfg utils.RabbitMQConfig, log *zap.Logger) Publisher {
	log = log.With(zap.String("component", "queue"))
	if cfg.URL == "" {
		log.Info("RabbitMQ URL not configured, events will only be logged")
		return &logPublisher{log: log}
	}
	return &amqpPublisher{url: cfg.URL, queue: cfg.Queue, log: log}
}

type amqpPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

// Publish dials per event; checkout volume does not justify a pooled channel.
func (p *amqpPublisher) Publish(ctx context.Context, event TransactionEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("RabbitMQ dial failed", zap.Error(err))
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("RabbitMQ channel open failed", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("RabbitMQ queue declare failed", zap.Error(err), zap.String("queue", p.queue))
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type,
		MessageId:    event.TransactionID + ":" + event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Warn("RabbitMQ publish failed", zap.Error(err), zap.String("type", event.Type))
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.log.Info("Event published",
		zap.String("type", event.Type),
		zap.String("transaction_id", event.TransactionID),
	)
	return nil
}

type logPublisher struct {
	log *zap.Logger
}

func (p *logPublisher) Publish(_ context.Context, event TransactionEvent) error {
	p.log.Info("Event (not published)",
		zap.String("type", event.Type),
		zap.String("transaction_id", event.TransactionID),
		zap.Int64("transaction_number", event.TransactionNumber),
	)
	return nil
}
