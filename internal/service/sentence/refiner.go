package sentence

import (
	"context"
	"strings"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const refinePrompt = "Convert this sequence of AAC pictogram keywords into a grammatically correct, simple sentence for a child. " +
	"Do not add markdown or explanations, just the sentence. Keywords: "

// Refine turns a pictogram sequence into a natural sentence. Without a
// credential, or when the backend fails or answers blank, the labels are
// joined with spaces.
func (s *Service) Refine(ctx context.Context, pictograms []domain.Pictogram) string {
	if len(pictograms) == 0 {
		return ""
	}

	texts := make([]string, len(pictograms))
	for i, p := range pictograms {
		texts[i] = p.Text
	}
	naive := strings.Join(texts, " ")

	if !s.available() {
		s.fallback("refine", domain.ErrNoCredential)
		return naive
	}

	if cached, ok := s.cachedString(ctx, "refine", naive); ok {
		return cached
	}

	text, err := s.generate(ctx, refinePrompt+naive)
	refined := strings.TrimSpace(text)
	if err != nil || refined == "" {
		s.fallback("refine", err)
		return naive
	}

	s.store(ctx, "refine", naive, refined, s.cfg.SentenceTTL)
	return refined
}
