package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
)

// EventPublisher sends content change events somewhere.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ContentChangedEvent) error
}

// NopPublisher drops every event. It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ContentChangedEvent) error { return nil }

// AMQPPublisher publishes events to the durable content.changed queue,
// dialling the broker per message. Content edits are rare enough that a
// long-lived channel is not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	URL string
	Log *slog.Logger
}

// Publish sends ev as a persistent JSON message. Errors are logged and
// returned so callers may ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ContentChangedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.ContentQueue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ContentQueue, false, false, msg); err != nil {
		p.Log.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
