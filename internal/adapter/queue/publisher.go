package queue

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const DefaultSubject = "pictovoz.agent.turns"

// TurnPublisher implements ports.EventPublisher on top of a MessageQueue.
// Publish failures are logged and dropped; a turn never fails because the
// bus is down.
type TurnPublisher struct {
	queue   MessageQueue
	subject string
	log     *zap.Logger
}

func NewTurnPublisher(queue MessageQueue, subject string, log *zap.Logger) *TurnPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &TurnPublisher{
		queue:   queue,
		subject: subject,
		log:     log,
	}
}

func (p *TurnPublisher) PublishTurn(ctx context.Context, event domain.TurnEvent) {
	if p == nil || p.queue == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode turn event", zap.String("turn_id", event.ID), zap.Error(err))
		return
	}

	if err := p.queue.Publish(p.subject, data); err != nil {
		p.log.Warn("Failed to publish turn event",
			zap.String("subject", p.subject),
			zap.String("turn_id", event.ID),
			zap.Error(err),
		)
	}
}

// ConsumeTurns subscribes fn to decoded turn events on subject. Payloads
// that do not decode are logged and skipped.
func ConsumeTurns(queue MessageQueue, subject string, log *zap.Logger, fn func(domain.TurnEvent)) error {
	if subject == "" {
		subject = DefaultSubject
	}
	return queue.Subscribe(subject, func(data []byte) error {
		var event domain.TurnEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Warn("Discarding malformed turn event", zap.String("subject", subject), zap.Error(err))
			return nil
		}
		fn(event)
		return nil
	})
}
