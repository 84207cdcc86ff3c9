// Package broker wraps the durable work-queue conventions shared by
// the control plane (producer) and the worker (consumer): a single
// durable queue, QoS prefetch on the consumer side, and a
// poll-then-publish loop bounded by MaxPending on the producer side.
// Grounded on the source's queue setup in worker/src/lib.rs and the
// post_render_task/MAX_RABBITMQ_MESSAGES loop in control_panel's
// rest_api/mod.rs.
package broker

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MaxPending bounds how many not-yet-consumed-or-acked messages a
// producer lets sit in the queue before it stops publishing more,
// matching the source's MAX_RABBITMQ_MESSAGES.
const MaxPending = 4

// Connection owns one AMQP connection/channel pair and the name of
// the durable queue both sides agree on.
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// Connect dials url, opens a channel and declares queue durable.
func Connect(url, queue string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dialing: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("broker: opening channel: %w", err)
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("broker: declaring queue %q: %w", queue, err)
	}

	return &Connection{conn: conn, channel: channel, queue: queue}, nil
}

func (c *Connection) Close() error {
	c.channel.Close()
	return c.conn.Close()
}

// Publish sends one persistent message to the queue.
func (c *Connection) Publish(ctx context.Context, body []byte) error {
	err := c.channel.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("broker: publishing to %q: %w", c.queue, err)
	}
	return nil
}

// PendingCount reports how many messages are sitting in the queue
// right now (published but not yet consumed or acked), the quantity
// MaxPending bounds.
func (c *Connection) PendingCount() (int, error) {
	q, err := c.channel.QueueInspect(c.queue)
	if err != nil {
		return 0, fmt.Errorf("broker: inspecting queue %q: %w", c.queue, err)
	}
	return q.Messages, nil
}

// PublishBounded blocks publishing each body from bodies in order,
// stalling whenever PendingCount() is already at or above MaxPending,
// the Go form of the source's post_render_task poll loop.
func (c *Connection) PublishBounded(ctx context.Context, bodies <-chan []byte) error {
	for body := range bodies {
		for {
			pending, err := c.PendingCount()
			if err != nil {
				return err
			}
			if pending < MaxPending {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
		}
		if err := c.Publish(ctx, body); err != nil {
			return err
		}
	}
	return nil
}

// Consume declares QoS prefetch=1 and starts a consumer, returning the
// delivery channel. Grounded on worker/src/lib.rs's
// BasicQosArguments::new(0, 1, false).
func (c *Connection) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("broker: setting QoS: %w", err)
	}

	deliveries, err := c.channel.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("broker: consuming from %q: %w", c.queue, err)
	}
	return deliveries, nil
}
