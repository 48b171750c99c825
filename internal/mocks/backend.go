package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// MockGenerativeBackend is a mock implementation of GenerativeBackend
type MockGenerativeBackend struct {
	GenerateFunc         func(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error)
	SynthesizeSpeechFunc func(ctx context.Context, req domain.SpeechRequest) ([]byte, error)

	mu             sync.Mutex
	GenerateCalls  []domain.GenerateRequest
	SpeechRequests []domain.SpeechRequest
}

func (m *MockGenerativeBackend) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &domain.GenerateReply{}, nil
}

func (m *MockGenerativeBackend) SynthesizeSpeech(ctx context.Context, req domain.SpeechRequest) ([]byte, error) {
	m.mu.Lock()
	m.SpeechRequests = append(m.SpeechRequests, req)
	m.mu.Unlock()

	if m.SynthesizeSpeechFunc != nil {
		return m.SynthesizeSpeechFunc(ctx, req)
	}
	return nil, nil
}

// TotalCalls counts every backend request of either kind.
func (m *MockGenerativeBackend) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls) + len(m.SpeechRequests)
}

// MockCredentialGate is a fixed CredentialGate
type MockCredentialGate struct {
	Configured bool
}

func (m MockCredentialGate) HasCredential() bool {
	return m.Configured
}
