package ports

import (
	"context"
	"time"

	"github.com/seu-repo/pictovoz/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// AudioSink starts playback of a decoded buffer without waiting for it to end.
type AudioSink interface {
	Play(ctx context.Context, audio *domain.DecodedAudio) error
}

// LocalSpeaker is the on-device speech synthesizer. Speak is fire-and-forget.
type LocalSpeaker interface {
	Speak(ctx context.Context, text string)
}

// EventPublisher emits turn events for downstream consumers.
type EventPublisher interface {
	PublishTurn(ctx context.Context, event domain.TurnEvent)
}
