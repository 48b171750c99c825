package ports

import (
	"context"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// AgentService runs one conversational turn. It never fails: every error
// path yields a fixed reply.
type AgentService interface {
	Run(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse
}

// SentenceService turns pictogram sequences into sentences and back.
type SentenceService interface {
	Refine(ctx context.Context, pictograms []domain.Pictogram) string
	Extract(ctx context.Context, text string) []string
}

// PlaybackService speaks a reply with the AI voice or the local synthesizer.
type PlaybackService interface {
	SpeakOrPlay(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome
}

// SymbolSearch finds pictograms in the remote symbol catalog. Lookups return
// empty results on any failure.
type SymbolSearch interface {
	Search(ctx context.Context, query, locale string) []domain.Symbol
	GetByID(ctx context.Context, id int) *domain.Symbol
}

// VocabularyService resolves keywords into board pictograms.
type VocabularyService interface {
	Resolve(ctx context.Context, keywords []string, locale string) []domain.Pictogram
	Core() []domain.Pictogram
	Categories() []domain.Category
}
