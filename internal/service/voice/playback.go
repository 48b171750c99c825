package voice

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/internal/ports"
	"github.com/seu-repo/pictovoz/pkg/pcm"
)

type Config struct {
	Model        string
	DefaultVoice string
}

func DefaultConfig() Config {
	return Config{
		Model:        "gemini-2.5-flash-preview-tts",
		DefaultVoice: domain.DefaultVoice,
	}
}

// Playback speaks replies with the AI voice and falls back to the local
// synthesizer. It has exactly two tiers and never retries.
type Playback struct {
	backend ports.GenerativeBackend
	gate    ports.CredentialGate
	sink    ports.AudioSink
	speaker ports.LocalSpeaker
	cfg     Config
	log     *zap.Logger
}

func NewPlayback(backend ports.GenerativeBackend, gate ports.CredentialGate, sink ports.AudioSink, speaker ports.LocalSpeaker, cfg Config, log *zap.Logger) *Playback {
	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = defaults.DefaultVoice
	}
	return &Playback{
		backend: backend,
		gate:    gate,
		sink:    sink,
		speaker: speaker,
		cfg:     cfg,
		log:     log,
	}
}

// SpeakOrPlay renders req through the AI voice when possible, otherwise
// through the local synthesizer with the original text.
func (p *Playback) SpeakOrPlay(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome {
	outcome := p.speakOrPlay(ctx, req)
	telemetry.PlaybackTotal.WithLabelValues(string(outcome)).Inc()
	return outcome
}

func (p *Playback) speakOrPlay(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome {
	if strings.TrimSpace(req.Text) == "" && len(req.Audio) == 0 {
		return domain.PlaybackSkipped
	}

	if p.backend == nil || p.gate == nil || !p.gate.HasCredential() {
		telemetry.FallbacksTotal.WithLabelValues("speech", "no_credential").Inc()
		return p.speakLocally(ctx, req.Text)
	}

	if err := p.playAI(ctx, req); err != nil {
		telemetry.FallbacksTotal.WithLabelValues("speech", domain.FailureReason(err)).Inc()
		p.log.Warn("AI voice unavailable, using local speech", zap.Error(err))
		return p.speakLocally(ctx, req.Text)
	}

	return domain.PlaybackAI
}

func (p *Playback) playAI(ctx context.Context, req domain.SpeakRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrDecode, r)
		}
	}()

	payload := req.Audio
	if len(payload) == 0 {
		voiceName := req.VoiceName
		if voiceName == "" {
			voiceName = p.cfg.DefaultVoice
		}

		payload, err = p.backend.SynthesizeSpeech(ctx, domain.SpeechRequest{
			Model:     p.cfg.Model,
			Text:      req.Text,
			VoiceName: voiceName,
		})
		if err != nil {
			return err
		}
		if len(payload) == 0 {
			return fmt.Errorf("%w: no audio in response", domain.ErrMalformedResponse)
		}
	}

	audio, err := pcm.Decode(payload, domain.SpeechSampleRate, domain.SpeechChannelCount)
	if err != nil {
		return err
	}
	telemetry.DecodedAudioSeconds.Observe(audio.Duration().Seconds())

	if err := p.sink.Play(ctx, audio); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	p.log.Debug("Playing AI voice",
		zap.Int("frames", audio.Frames()),
		zap.Duration("duration", audio.Duration()),
	)
	return nil
}

func (p *Playback) speakLocally(ctx context.Context, text string) (outcome domain.PlaybackOutcome) {
	if strings.TrimSpace(text) == "" {
		return domain.PlaybackSkipped
	}
	if p.speaker == nil {
		p.log.Warn("No local speaker configured, reply not spoken")
		return domain.PlaybackSkipped
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Local speaker panicked", zap.Any("panic", r))
			outcome = domain.PlaybackSkipped
		}
	}()

	p.speaker.Speak(ctx, text)
	return domain.PlaybackLocal
}
