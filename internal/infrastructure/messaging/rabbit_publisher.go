package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/taskforge/user-service/internal/application"
	"github.com/taskforge/user-service/internal/domain/event"
)

// DefaultExchange is the topic exchange domain events are announced on.
const DefaultExchange = "domain.events"

// RabbitPublisher announces domain events on a durable topic exchange.
// The routing key is derived from the event type tag (user.created,
// user.updated, user.deleted), so consumers bind by pattern.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	Exchange string
	Logger   *logrus.Logger
}

func NewRabbitPublisher(url, exchange string, logger *logrus.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Exchange: exchange, Logger: logger}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish delivers one event as a persistent JSON message. Transport
// errors wrap application.ErrPublishFailed so callers can classify them.
func (p *RabbitPublisher) Publish(ctx context.Context, ev event.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}
	err = p.ch.PublishWithContext(ctx,
		p.Exchange,
		ev.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Timestamp:    ev.OccurredAt,
			Type:         string(ev.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: event %s: %v", application.ErrPublishFailed, ev.ID, err)
	}
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{
			"event_id":     ev.ID,
			"routing_key":  ev.RoutingKey(),
			"aggregate_id": ev.AggregateID,
		}).Debug("event published")
	}
	return nil
}

var _ application.EventPublisher = (*RabbitPublisher)(nil)
