package sentence

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/seu-repo/pictovoz/internal/domain"
)

const keywordsPrompt = "Extract the main keywords from this sentence that would match standard AAC pictograms (nouns, verbs, adjectives). " +
	"Return them as a comma-separated list. Sentence: "

// Extract turns free text into lowercase pictogram keywords. The fallback
// is a plain split on single spaces, without lowercasing.
func (s *Service) Extract(ctx context.Context, text string) []string {
	if text == "" || !s.available() {
		if text != "" {
			s.fallback("keywords", domain.ErrNoCredential)
		}
		return strings.Split(text, " ")
	}

	if cached, ok := s.cachedKeywords(ctx, text); ok {
		return cached
	}

	raw, err := s.generate(ctx, keywordsPrompt+`"`+text+`"`)
	raw = strings.TrimSpace(raw)
	if err != nil || raw == "" {
		s.fallback("keywords", err)
		return strings.Split(text, " ")
	}

	parts := strings.Split(raw, ",")
	keywords := make([]string, len(parts))
	for i, p := range parts {
		keywords[i] = strings.ToLower(strings.TrimSpace(p))
	}

	if data, err := json.Marshal(keywords); err == nil {
		s.store(ctx, "keywords", text, data, s.cfg.KeywordsTTL)
	}
	return keywords
}
