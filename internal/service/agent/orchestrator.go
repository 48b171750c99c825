package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/internal/ports"
)

type Config struct {
	Model string

	// MaxPendingEvents bounds turn events still being handed to the bus.
	// Events beyond it are dropped.
	MaxPendingEvents int
}

func DefaultConfig() Config {
	return Config{Model: "gemini-2.5-flash", MaxPendingEvents: 64}
}

// Orchestrator runs single conversational turns against the generative
// backend and always produces a response.
type Orchestrator struct {
	backend ports.GenerativeBackend
	gate    ports.CredentialGate
	events  ports.EventPublisher
	cfg     Config
	log     *zap.Logger

	pending sync.WaitGroup
	slots   chan struct{}
}

// NewOrchestrator wires the agent. events may be nil.
func NewOrchestrator(backend ports.GenerativeBackend, gate ports.CredentialGate, events ports.EventPublisher, cfg Config, log *zap.Logger) *Orchestrator {
	defaults := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxPendingEvents <= 0 {
		cfg.MaxPendingEvents = defaults.MaxPendingEvents
	}
	return &Orchestrator{
		backend: backend,
		gate:    gate,
		events:  events,
		cfg:     cfg,
		log:     log,
		slots:   make(chan struct{}, cfg.MaxPendingEvents),
	}
}

func (o *Orchestrator) Run(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse {
	turnID := uuid.NewString()
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "agent.run",
		attribute.String("agent.turn_id", turnID),
		attribute.Bool("agent.is_night", agentCtx.IsNight),
		attribute.Bool("agent.has_location", agentCtx.Location != nil),
	)
	defer span.End()

	resp, outcome := o.run(ctx, turnID, input, agentCtx)

	latency := time.Since(start)
	telemetry.AgentLatency.Observe(latency.Seconds())
	telemetry.AgentTurnsTotal.WithLabelValues(string(outcome), string(resp.Action)).Inc()
	if resp.MapData != nil {
		telemetry.AgentMapReferencesTotal.Inc()
	}
	span.SetAttributes(attribute.String("agent.outcome", string(outcome)))

	o.publish(context.WithoutCancel(ctx), domain.TurnEvent{
		ID:           turnID,
		Outcome:      outcome,
		Action:       resp.Action,
		KeywordCount: len(resp.Keywords),
		HasMap:       resp.MapData != nil,
		IsNight:      agentCtx.IsNight,
		LatencyMs:    latency.Milliseconds(),
		Timestamp:    start.Unix(),
	})

	return resp
}

func (o *Orchestrator) run(ctx context.Context, turnID, input string, agentCtx domain.AgentContext) (resp domain.AgentResponse, outcome domain.TurnOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o.fail(turnID, fmt.Errorf("%w: panic: %v", domain.ErrMalformedResponse, r))
			resp, outcome = domain.AgentResponse{Text: domain.ReplyFailure}, domain.TurnFailed
		}
	}()

	if o.backend == nil || o.gate == nil || !o.gate.HasCredential() {
		telemetry.FallbacksTotal.WithLabelValues("agent", "no_credential").Inc()
		return domain.AgentResponse{Text: domain.ReplyNoCredential}, domain.TurnNoCredential
	}

	reply, err := o.backend.Generate(ctx, domain.GenerateRequest{
		Model:             o.cfg.Model,
		SystemInstruction: systemInstruction(agentCtx),
		Prompt:            input,
		Tools:             []domain.ToolDeclaration{showPictogramsDeclaration},
		MapsGrounding:     true,
		Location:          agentCtx.Location,
	})
	if err == nil && reply == nil {
		err = fmt.Errorf("%w: nil reply", domain.ErrMalformedResponse)
	}
	if err != nil {
		o.fail(turnID, err)
		return domain.AgentResponse{Text: domain.ReplyFailure}, domain.TurnFailed
	}

	resp = normalize(reply)
	if len(reply.ToolCalls) > 0 && resp.Action == "" {
		o.log.Debug("Ignoring tool call",
			zap.String("turn_id", turnID),
			zap.String("tool", reply.ToolCalls[0].Name),
		)
	}

	o.log.Info("Agent turn completed",
		zap.String("turn_id", turnID),
		zap.String("action", string(resp.Action)),
		zap.Int("keywords", len(resp.Keywords)),
		zap.Bool("map", resp.MapData != nil),
	)
	return resp, domain.TurnNormalized
}

func (o *Orchestrator) fail(turnID string, err error) {
	telemetry.FallbacksTotal.WithLabelValues("agent", domain.FailureReason(err)).Inc()
	o.log.Error("Agent turn failed", zap.String("turn_id", turnID), zap.Error(err))
}

// publish hands the event to the bus without holding up the reply.
func (o *Orchestrator) publish(ctx context.Context, event domain.TurnEvent) {
	if o.events == nil {
		return
	}

	select {
	case o.slots <- struct{}{}:
	default:
		telemetry.TurnEventsDroppedTotal.Inc()
		o.log.Warn("Turn event dropped, publisher is behind", zap.String("turn_id", event.ID))
		return
	}

	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		defer func() { <-o.slots }()
		defer func() {
			if r := recover(); r != nil {
				o.log.Error("Turn event publisher panicked", zap.String("turn_id", event.ID), zap.Any("panic", r))
			}
		}()
		o.events.PublishTurn(ctx, event)
	}()
}

// Wait blocks until every accepted turn event has been handed to the bus.
func (o *Orchestrator) Wait() {
	o.pending.Wait()
}
