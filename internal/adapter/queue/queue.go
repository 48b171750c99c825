package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// Open connects the bus named by cfg.Driver. An empty driver returns a nil
// queue and no error: turn events are then dropped.
func Open(cfg config.EventsConfig, log *zap.Logger) (MessageQueue, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "nats":
		return NewNATSQueue(cfg.NATS, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.RabbitMQ.URL, log)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
