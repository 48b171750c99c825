package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const rabbitPublishTimeout = 5 * time.Second

// RabbitMQQueue publishes to fanout exchanges named after the subject.
// Exchanges are declared once per channel.
type RabbitMQQueue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	declared map[string]bool
	closed   bool
	mu       sync.Mutex
	log      *zap.Logger
}

func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	q := &RabbitMQQueue{
		conn:     conn,
		channel:  ch,
		url:      url,
		declared: make(map[string]bool),
		log:      log,
	}

	go q.monitorConnection(conn)

	log.Info("Successfully connected to RabbitMQ")
	return q, nil
}

// declare must be called with q.mu held.
func (q *RabbitMQQueue) declare(exchange string) error {
	if q.declared[exchange] {
		return nil
	}
	if err := q.channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	q.declared[exchange] = true
	return nil
}

// Publish holds q.mu only to pick the channel; amqp channels serialize
// concurrent publishes themselves.
func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	ch, err := q.publishChannel(subject)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rabbitPublishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, subject, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        data,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) publishChannel(exchange string) (*amqp.Channel, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil || q.channel.IsClosed() {
		return nil, fmt.Errorf("rabbitmq: channel not available")
	}
	if err := q.declare(exchange); err != nil {
		return nil, err
	}
	return q.channel, nil
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil || q.channel.IsClosed() {
		return fmt.Errorf("rabbitmq: channel not available")
	}
	if err := q.declare(subject); err != nil {
		return err
	}

	queue, err := q.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := q.channel.QueueBind(queue.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}

	msgs, err := q.channel.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("exchange", subject),
					zap.Error(err),
				)
			}
		}
	}()

	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// monitorConnection redials after the broker drops conn. Turn events
// published while disconnected are lost.
func (q *RabbitMQQueue) monitorConnection(conn *amqp.Connection) {
	for {
		reason, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || reason == nil {
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting...", zap.String("reason", reason.Reason))

		for {
			time.Sleep(5 * time.Second)

			q.mu.Lock()
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}

			next, err := amqp.Dial(q.url)
			if err != nil {
				q.log.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				continue
			}
			ch, err := next.Channel()
			if err != nil {
				next.Close()
				continue
			}

			q.mu.Lock()
			q.conn = next
			q.channel = ch
			q.declared = make(map[string]bool)
			q.mu.Unlock()

			q.log.Info("Successfully reconnected to RabbitMQ")
			conn = next
			break
		}
	}
}
