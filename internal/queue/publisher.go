package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits order events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error
}

// AMQPPublisher dials the broker for every event. Order volume per visitor
// is tiny, so no connection is kept open between checkouts.
type AMQPPublisher struct {
	url string
	log *zap.SugaredLogger
}

func NewAMQPPublisher(url string, log *zap.SugaredLogger) *AMQPPublisher {
	return &AMQPPublisher{url: url, log: log.Named("publisher")}
}

// PublishOrderPlaced sends ev as a persistent message on OrderPlacedQueue.
// Errors are logged and returned; callers are free to ignore them.
func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error {
	if err := p.publish(ctx, OrderPlacedQueue, ev); err != nil {
		p.log.Warnw("publish failed", "queue", OrderPlacedQueue, "order_id", ev.OrderID, "error", err)
		return err
	}
	p.log.Debugw("event published", "queue", OrderPlacedQueue, "order_id", ev.OrderID)
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
