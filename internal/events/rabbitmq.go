package events

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

// channel — подмножество *amqp091.Channel, нужное издателю.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch    channel
	queue string
	log   *zap.Logger
}

// NewRabbitPublisher открывает канал и объявляет durable-очередь.
func NewRabbitPublisher(conn *amqp091.Connection, queue string, log *zap.Logger) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, queue, log)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(ch channel, queue string, log *zap.Logger) (*RabbitPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &RabbitPublisher{ch: ch, queue: queue, log: log}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	msg := amqp091.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp091.Persistent,
		Type:         string(event.Type),
		MessageId:    event.AppointmentID + ":" + string(event.Type),
		Timestamp:    event.OccurredAt,
		Body:         body,
		Headers: amqp091.Table{
			"message_type": "JSON",
		},
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.log.Error("publish appointment event failed",
			zap.String("queue", p.queue),
			zap.String("type", string(event.Type)),
			zap.String("appointment_id", event.AppointmentID),
			zap.Error(err),
		)
		return fmt.Errorf("publish to %s: %w", p.queue, err)
	}

	p.log.Debug("appointment event published",
		zap.String("queue", p.queue),
		zap.String("type", string(event.Type)),
		zap.String("appointment_id", event.AppointmentID),
	)
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}
