package sentence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/internal/ports"
)

type Config struct {
	Model       string
	SentenceTTL time.Duration
	KeywordsTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Model:       "gemini-3-flash-preview",
		SentenceTTL: time.Hour,
		KeywordsTTL: time.Hour,
	}
}

// Service converts between pictogram sequences and sentences. Both
// directions degrade to a local heuristic instead of failing.
type Service struct {
	backend ports.GenerativeBackend
	gate    ports.CredentialGate
	cache   ports.Cache
	cfg     Config
	log     *zap.Logger
}

// NewService wires the refiner and extractor. cache may be nil.
func NewService(backend ports.GenerativeBackend, gate ports.CredentialGate, cache ports.Cache, cfg Config, log *zap.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	return &Service{
		backend: backend,
		gate:    gate,
		cache:   cache,
		cfg:     cfg,
		log:     log,
	}
}

func (s *Service) available() bool {
	return s.backend != nil && s.gate != nil && s.gate.HasCredential()
}

func (s *Service) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrMalformedResponse, r)
		}
	}()

	reply, err := s.backend.Generate(ctx, domain.GenerateRequest{
		Model:  s.cfg.Model,
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}
	if reply == nil {
		return "", fmt.Errorf("%w: nil reply", domain.ErrMalformedResponse)
	}
	return reply.Text, nil
}

func (s *Service) fallback(operation string, err error) {
	reason := "empty_result"
	if err != nil {
		reason = domain.FailureReason(err)
	}
	telemetry.FallbacksTotal.WithLabelValues(operation, reason).Inc()
	if err != nil {
		s.log.Warn("AI call failed, using local fallback", zap.String("operation", operation), zap.Error(err))
	}
}

func cacheKey(scope, input string) string {
	sum := sha256.Sum256([]byte(input))
	return "sentence:" + scope + ":" + hex.EncodeToString(sum[:])
}

func (s *Service) cachedString(ctx context.Context, scope, input string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, err := s.cache.Get(ctx, cacheKey(scope, input))
	if err != nil || val == "" {
		telemetry.CacheLookupsTotal.WithLabelValues(scope, "miss").Inc()
		return "", false
	}
	telemetry.CacheLookupsTotal.WithLabelValues(scope, "hit").Inc()
	return val, true
}

func (s *Service) store(ctx context.Context, scope, input string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(scope, input), value, ttl); err != nil {
		s.log.Debug("Failed to cache result", zap.String("scope", scope), zap.Error(err))
	}
}

func (s *Service) cachedKeywords(ctx context.Context, text string) ([]string, bool) {
	raw, ok := s.cachedString(ctx, "keywords", text)
	if !ok {
		return nil, false
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil || len(keywords) == 0 {
		return nil, false
	}
	return keywords, true
}
