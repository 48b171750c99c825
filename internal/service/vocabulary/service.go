package vocabulary

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/ports"
)

// Service resolves agent keywords into board pictograms. The core
// vocabulary is consulted first and the symbol catalog fills the gaps.
type Service struct {
	symbols ports.SymbolSearch
	log     *zap.Logger
}

// NewService builds the resolver. symbols may be nil, in which case only
// the core vocabulary is used.
func NewService(symbols ports.SymbolSearch, log *zap.Logger) *Service {
	return &Service{
		symbols: symbols,
		log:     log,
	}
}

// Resolve maps each keyword to one pictogram, preserving order. Keywords
// that resolve nowhere are skipped, as are repeats of an id already placed.
func (s *Service) Resolve(ctx context.Context, keywords []string, locale string) []domain.Pictogram {
	out := make([]domain.Pictogram, 0, len(keywords))
	seen := make(map[int]bool, len(keywords))

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}

		p, ok := s.resolveOne(ctx, kw, locale)
		if !ok {
			s.log.Debug("Keyword not resolved", zap.String("keyword", kw))
			continue
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	return out
}

func (s *Service) resolveOne(ctx context.Context, keyword, locale string) (domain.Pictogram, bool) {
	if p, ok := domain.MatchPictogram(keyword); ok {
		return p, true
	}
	if s.symbols == nil {
		return domain.Pictogram{}, false
	}

	hits := s.symbols.Search(ctx, keyword, locale)
	if len(hits) == 0 {
		return domain.Pictogram{}, false
	}

	p := hits[0].ToPictogram()
	if p.Text == "" {
		p.Text = keyword
	}
	return p, true
}

// Core returns the built-in board vocabulary.
func (s *Service) Core() []domain.Pictogram {
	return domain.CoreVocabulary
}

// Categories returns the board category tabs.
func (s *Service) Categories() []domain.Category {
	return domain.Categories
}
