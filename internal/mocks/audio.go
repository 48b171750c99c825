package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// MockSpeaker records texts sent to the local synthesizer
type MockSpeaker struct {
	mu     sync.Mutex
	Spoken []string
}

func (m *MockSpeaker) Speak(ctx context.Context, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Spoken = append(m.Spoken, text)
}

func (m *MockSpeaker) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Spoken))
	copy(out, m.Spoken)
	return out
}

// MockAudioSink is a mock implementation of AudioSink
type MockAudioSink struct {
	PlayFunc func(ctx context.Context, audio *domain.DecodedAudio) error

	mu     sync.Mutex
	Played []*domain.DecodedAudio
}

func (m *MockAudioSink) Play(ctx context.Context, audio *domain.DecodedAudio) error {
	if m.PlayFunc != nil {
		if err := m.PlayFunc(ctx, audio); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Played = append(m.Played, audio)
	return nil
}

func (m *MockAudioSink) PlayedBuffers() []*domain.DecodedAudio {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.DecodedAudio, len(m.Played))
	copy(out, m.Played)
	return out
}

// MockEventPublisher records published turn events
type MockEventPublisher struct {
	PublishTurnFunc func(ctx context.Context, event domain.TurnEvent)

	mu     sync.Mutex
	Events []domain.TurnEvent
}

func (m *MockEventPublisher) PublishTurn(ctx context.Context, event domain.TurnEvent) {
	if m.PublishTurnFunc != nil {
		m.PublishTurnFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

func (m *MockEventPublisher) Published() []domain.TurnEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.TurnEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
