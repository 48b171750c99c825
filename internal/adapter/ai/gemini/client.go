package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
)

// contentGenerator is the slice of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements ports.GenerativeBackend on the Gemini API.
type Client struct {
	models  contentGenerator
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

// NewClient connects to the Gemini developer API with an API key.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	log.Info("Gemini client initialized")
	return newClient(gc.Models, timeout, breaker, log), nil
}

func newClient(models contentGenerator, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *Client {
	return &Client{
		models:  models,
		breaker: breaker,
		timeout: timeout,
		log:     log,
	}
}

// Generate performs one generateContent round trip.
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error) {
	ctx, span := telemetry.StartSpan(ctx, "gemini.generate",
		attribute.String("gemini.model", req.Model),
		attribute.Int("gemini.tools", len(req.Tools)),
		attribute.Bool("gemini.maps_grounding", req.MapsGrounding),
	)
	defer span.End()

	resp, err := c.call(ctx, "generate", req.Model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	reply, err := replyFromResponse(resp)
	if err != nil {
		telemetry.BackendRequestsTotal.WithLabelValues("generate", "malformed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("gemini.function_calls", len(reply.ToolCalls)),
		attribute.Int("gemini.grounding_refs", len(reply.Grounding)),
	)
	return reply, nil
}

// SynthesizeSpeech requests single-speaker audio and returns the raw PCM16
// payload.
func (c *Client) SynthesizeSpeech(ctx context.Context, req domain.SpeechRequest) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "gemini.synthesize_speech",
		attribute.String("gemini.model", req.Model),
		attribute.String("gemini.voice", req.VoiceName),
	)
	defer span.End()

	resp, err := c.call(ctx, "speech", req.Model, genai.Text(req.Text), speechConfig(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	audio, err := audioFromResponse(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("gemini.audio_bytes", len(audio)))
	return audio, nil
}

func (c *Client) call(ctx context.Context, operation, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := circuitbreaker.Call(c.breaker, func() (*genai.GenerateContentResponse, error) {
		return c.models.GenerateContent(ctx, model, contents, cfg)
	})
	telemetry.BackendLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		telemetry.BackendRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.log.Warn("Gemini request failed",
			zap.String("operation", operation),
			zap.String("model", model),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	if resp == nil {
		telemetry.BackendRequestsTotal.WithLabelValues(operation, "empty").Inc()
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}

	telemetry.BackendRequestsTotal.WithLabelValues(operation, "ok").Inc()
	return resp, nil
}

// BreakerSettings returns breaker settings that ignore caller cancellations.
func BreakerSettings(base circuitbreaker.Settings) circuitbreaker.Settings {
	base.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	return base
}
