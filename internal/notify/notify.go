// Package notify is the outbound data-update notification port.
// Publishing happens after a store operation succeeds and is strictly
// fire and forget: the mutation's result never depends on it.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const Queue = "events_queue"

type Notifier interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Noop discards every event. Used in tests and in commands that have no
// broker connection.
type Noop struct{}

func (Noop) Publish(context.Context, domain.Event) error { return nil }

// AMQPPublisher pushes events onto a RabbitMQ queue consumed by
// cmd/worker and any other interested listeners.
type AMQPPublisher struct {
	channel *amqp.Channel
	timeout time.Duration
}

func NewAMQPPublisher(channel *amqp.Channel, publishTimeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{
		channel: channel,
		timeout: publishTimeout,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",
		Queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
