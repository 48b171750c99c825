package mocks

import (
	"context"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// MockAgentService is a mock implementation of AgentService
type MockAgentService struct {
	RunFunc func(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse
	Inputs  []string
	Context []domain.AgentContext
}

func (m *MockAgentService) Run(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse {
	m.Inputs = append(m.Inputs, input)
	m.Context = append(m.Context, agentCtx)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, input, agentCtx)
	}
	return domain.AgentResponse{Text: domain.ReplyListening}
}

// MockSentenceService is a mock implementation of SentenceService
type MockSentenceService struct {
	RefineFunc  func(ctx context.Context, pictograms []domain.Pictogram) string
	ExtractFunc func(ctx context.Context, text string) []string
	Refined     [][]domain.Pictogram
}

func (m *MockSentenceService) Refine(ctx context.Context, pictograms []domain.Pictogram) string {
	m.Refined = append(m.Refined, pictograms)
	if m.RefineFunc != nil {
		return m.RefineFunc(ctx, pictograms)
	}
	return ""
}

func (m *MockSentenceService) Extract(ctx context.Context, text string) []string {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}
	return nil
}

// MockPlaybackService is a mock implementation of PlaybackService
type MockPlaybackService struct {
	SpeakOrPlayFunc func(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome
	Requests        []domain.SpeakRequest
}

func (m *MockPlaybackService) SpeakOrPlay(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome {
	m.Requests = append(m.Requests, req)
	if m.SpeakOrPlayFunc != nil {
		return m.SpeakOrPlayFunc(ctx, req)
	}
	return domain.PlaybackLocal
}

// MockVocabularyService is a mock implementation of VocabularyService
type MockVocabularyService struct {
	ResolveFunc func(ctx context.Context, keywords []string, locale string) []domain.Pictogram
	Locales     []string
}

func (m *MockVocabularyService) Resolve(ctx context.Context, keywords []string, locale string) []domain.Pictogram {
	m.Locales = append(m.Locales, locale)
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, keywords, locale)
	}
	return nil
}

func (m *MockVocabularyService) Core() []domain.Pictogram {
	return domain.CoreVocabulary
}

func (m *MockVocabularyService) Categories() []domain.Category {
	return domain.Categories
}
