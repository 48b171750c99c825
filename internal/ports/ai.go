package ports

import (
	"context"

	"github.com/seu-repo/pictovoz/internal/domain"
)

// CredentialGate reports whether an AI backend credential is configured.
type CredentialGate interface {
	HasCredential() bool
}

// GenerativeBackend is the remote model used for text, tool calls and speech.
type GenerativeBackend interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error)
	// SynthesizeSpeech returns raw little-endian PCM16 audio.
	SynthesizeSpeech(ctx context.Context, req domain.SpeechRequest) ([]byte, error)
}
