package credential

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Gate is the process-wide answer to "is an AI credential configured". It is
// resolved once and never changes afterwards.
type Gate struct {
	apiKey string
}

// NewGate builds a gate from a raw key. Blank keys close the gate.
func NewGate(apiKey string) *Gate {
	return &Gate{apiKey: strings.TrimSpace(apiKey)}
}

func (g *Gate) HasCredential() bool {
	return g != nil && g.apiKey != ""
}

// APIKey returns the resolved key for building backend clients.
func (g *Gate) APIKey() string {
	if g == nil {
		return ""
	}
	return g.apiKey
}

// SecretSource provides the key from a secret store.
type SecretSource interface {
	GetGeminiAPIKey(ctx context.Context) (string, error)
}

// Resolve prefers the configured key and falls back to the secret store.
// Secret store failures leave the gate closed.
func Resolve(ctx context.Context, configured string, source SecretSource, log *zap.Logger) *Gate {
	if gate := NewGate(configured); gate.HasCredential() {
		log.Info("AI credential loaded from configuration")
		return gate
	}

	if source == nil {
		log.Warn("No AI credential configured, running in offline mode")
		return NewGate("")
	}

	key, err := source.GetGeminiAPIKey(ctx)
	if err != nil {
		log.Warn("Failed to read AI credential from secret store, running in offline mode", zap.Error(err))
		return NewGate("")
	}

	gate := NewGate(key)
	if gate.HasCredential() {
		log.Info("AI credential loaded from secret store")
	} else {
		log.Warn("Secret store returned an empty AI credential, running in offline mode")
	}
	return gate
}
