package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func replying(reply *domain.GenerateReply) *mocks.MockGenerativeBackend {
	return &mocks.MockGenerativeBackend{
		GenerateFunc: func(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error) {
			return reply, nil
		},
	}
}

func newTestOrchestrator(backend *mocks.MockGenerativeBackend, configured bool) (*Orchestrator, *mocks.MockEventPublisher) {
	events := &mocks.MockEventPublisher{}
	o := NewOrchestrator(backend, mocks.MockCredentialGate{Configured: configured}, events, DefaultConfig(), newTestLogger())
	return o, events
}

func TestRun_NoCredential(t *testing.T) {
	// Arrange
	backend := &mocks.MockGenerativeBackend{}
	o, events := newTestOrchestrator(backend, false)

	// Act
	resp := o.Run(context.Background(), "hello", domain.AgentContext{})
	o.Wait()

	// Assert
	assert.Equal(t, domain.AgentResponse{Text: "I can't connect to my brain right now. Please check your API key."}, resp)
	assert.Equal(t, 0, backend.TotalCalls())
	require.Len(t, events.Published(), 1)
	assert.Equal(t, domain.TurnNoCredential, events.Published()[0].Outcome)
}

func TestRun_PlainText(t *testing.T) {
	o, _ := newTestOrchestrator(replying(&domain.GenerateReply{Text: "Hi there!"}), true)

	resp := o.Run(context.Background(), "hello", domain.AgentContext{})

	assert.Equal(t, "Hi there!", resp.Text)
	assert.Empty(t, resp.Action)
	assert.Nil(t, resp.Keywords)
	assert.Nil(t, resp.MapData)
}

func TestRun_EmptyTextFallsBackToListening(t *testing.T) {
	o, _ := newTestOrchestrator(replying(&domain.GenerateReply{}), true)

	resp := o.Run(context.Background(), "...", domain.AgentContext{})

	assert.Equal(t, "I'm listening...", resp.Text)
	assert.Empty(t, resp.Action)
}

func TestRun_ShowPictograms(t *testing.T) {
	reply := &domain.GenerateReply{
		Text: "Sure!",
		ToolCalls: []domain.ToolCall{{
			Name: "show_pictograms",
			Args: map[string]any{"keywords": []any{"i", "want", "water"}},
		}},
	}
	o, events := newTestOrchestrator(replying(reply), true)

	resp := o.Run(context.Background(), "how do I ask for water", domain.AgentContext{})
	o.Wait()

	assert.Equal(t, domain.ActionShowPictograms, resp.Action)
	assert.Equal(t, []string{"i", "want", "water"}, resp.Keywords)
	assert.Equal(t, "Here are the pictograms for that.", resp.Text)
	assert.True(t, resp.ShowsPictograms())

	published := events.Published()
	require.Len(t, published, 1)
	assert.Equal(t, domain.TurnNormalized, published[0].Outcome)
	assert.Equal(t, 3, published[0].KeywordCount)
	assert.NotEmpty(t, published[0].ID)
}

func TestRun_KeywordsPassThroughUnchanged(t *testing.T) {
	reply := &domain.GenerateReply{ToolCalls: []domain.ToolCall{{
		Name: "show_pictograms",
		Args: map[string]any{"keywords": []string{"Big", " Dog "}},
	}}}
	o, _ := newTestOrchestrator(replying(reply), true)

	resp := o.Run(context.Background(), "x", domain.AgentContext{})

	assert.Equal(t, []string{"Big", " Dog "}, resp.Keywords)
}

func TestRun_MalformedToolCallsAreIgnored(t *testing.T) {
	tests := []struct {
		name  string
		calls []domain.ToolCall
	}{
		{"keywords is a string", []domain.ToolCall{{Name: "show_pictograms", Args: map[string]any{"keywords": "water"}}}},
		{"keywords has numbers", []domain.ToolCall{{Name: "show_pictograms", Args: map[string]any{"keywords": []any{"a", 1.0}}}}},
		{"keywords missing", []domain.ToolCall{{Name: "show_pictograms", Args: map[string]any{}}}},
		{"keywords empty", []domain.ToolCall{{Name: "show_pictograms", Args: map[string]any{"keywords": []any{}}}}},
		{"nil args", []domain.ToolCall{{Name: "show_pictograms"}}},
		{"other tool", []domain.ToolCall{{Name: "open_door", Args: map[string]any{"keywords": []any{"door"}}}}},
		{"show_pictograms not first", []domain.ToolCall{
			{Name: "open_door"},
			{Name: "show_pictograms", Args: map[string]any{"keywords": []any{"door"}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOrchestrator(replying(&domain.GenerateReply{Text: "Okay.", ToolCalls: tt.calls}), true)

			resp := o.Run(context.Background(), "x", domain.AgentContext{})

			assert.Equal(t, "Okay.", resp.Text)
			assert.Empty(t, resp.Action)
			assert.Nil(t, resp.Keywords)
		})
	}
}

func TestRun_MapGrounding(t *testing.T) {
	tests := []struct {
		name string
		refs []domain.GroundingRef
		want *domain.MapData
	}{
		{
			name: "maps.google.com with title",
			refs: []domain.GroundingRef{{URI: "https://maps.google.com/?cid=42", Title: "Central Park"}},
			want: &domain.MapData{URI: "https://maps.google.com/?cid=42", Title: "Central Park"},
		},
		{
			name: "google.com/maps without title",
			refs: []domain.GroundingRef{{URI: "https://www.google.com/maps/place/x"}},
			want: &domain.MapData{URI: "https://www.google.com/maps/place/x", Title: "View on Map"},
		},
		{
			name: "first matching ref wins",
			refs: []domain.GroundingRef{
				{URI: "https://en.wikipedia.org/wiki/Park", Title: "Wiki"},
				{URI: "https://maps.google.com/?cid=1", Title: "First"},
				{URI: "https://maps.google.com/?cid=2", Title: "Second"},
			},
			want: &domain.MapData{URI: "https://maps.google.com/?cid=1", Title: "First"},
		},
		{
			name: "no map refs",
			refs: []domain.GroundingRef{{URI: "https://example.com/maps", Title: "Not Google"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newTestOrchestrator(replying(&domain.GenerateReply{Text: "It's nearby.", Grounding: tt.refs}), true)

			resp := o.Run(context.Background(), "where is the park", domain.AgentContext{})

			assert.Equal(t, tt.want, resp.MapData)
			assert.Equal(t, "It's nearby.", resp.Text)
		})
	}
}

func TestRun_ToolCallAndMapTogether(t *testing.T) {
	reply := &domain.GenerateReply{
		Text:      "Let's go home.",
		ToolCalls: []domain.ToolCall{{Name: "show_pictograms", Args: map[string]any{"keywords": []any{"go", "home"}}}},
		Grounding: []domain.GroundingRef{{URI: "https://maps.google.com/?q=home", Title: "Home"}},
	}
	o, _ := newTestOrchestrator(replying(reply), true)

	resp := o.Run(context.Background(), "I want to go home", domain.AgentContext{IsNight: true})

	assert.Equal(t, domain.ActionShowPictograms, resp.Action)
	assert.Equal(t, []string{"go", "home"}, resp.Keywords)
	assert.Equal(t, "Here are the pictograms for that.", resp.Text)
	require.NotNil(t, resp.MapData)
	assert.Equal(t, "Home", resp.MapData.Title)
}

func TestRun_BackendErrorYieldsFailureReply(t *testing.T) {
	backend := &mocks.MockGenerativeBackend{
		GenerateFunc: func(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error) {
			return nil, errors.New("503 unavailable")
		},
	}
	o, events := newTestOrchestrator(backend, true)

	resp := o.Run(context.Background(), "hello", domain.AgentContext{})
	o.Wait()

	assert.Equal(t, domain.AgentResponse{Text: "Sorry, I had trouble understanding that."}, resp)
	require.Len(t, events.Published(), 1)
	assert.Equal(t, domain.TurnFailed, events.Published()[0].Outcome)
}

func TestRun_NilReplyAndPanicYieldFailureReply(t *testing.T) {
	backends := map[string]*mocks.MockGenerativeBackend{
		"nil reply": replying(nil),
		"panic": {
			GenerateFunc: func(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReply, error) {
				panic("unexpected payload")
			},
		},
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			o, _ := newTestOrchestrator(backend, true)

			resp := o.Run(context.Background(), "hello", domain.AgentContext{})

			assert.Equal(t, "Sorry, I had trouble understanding that.", resp.Text)
			assert.Empty(t, resp.Action)
		})
	}
}

func TestRun_RequestCarriesContext(t *testing.T) {
	backend := replying(&domain.GenerateReply{Text: "ok"})
	o, _ := newTestOrchestrator(backend, true)
	loc := &domain.LatLng{Lat: 41.38, Lng: 2.17}

	o.Run(context.Background(), "I'm lost", domain.AgentContext{IsNight: true, Location: loc})
	o.Run(context.Background(), "hi", domain.AgentContext{})

	require.Len(t, backend.GenerateCalls, 2)
	night, day := backend.GenerateCalls[0], backend.GenerateCalls[1]

	assert.Equal(t, "gemini-2.5-flash", night.Model)
	assert.Equal(t, "I'm lost", night.Prompt)
	assert.Contains(t, night.SystemInstruction, "IT IS NIGHT/LATE")
	assert.Contains(t, night.SystemInstruction, "show_pictograms")
	assert.True(t, night.MapsGrounding)
	assert.Equal(t, loc, night.Location)
	require.Len(t, night.Tools, 1)
	assert.Equal(t, "show_pictograms", night.Tools[0].Name)
	assert.True(t, night.Tools[0].Params[0].Required)

	assert.Contains(t, day.SystemInstruction, "It is daytime")
	assert.False(t, strings.Contains(day.SystemInstruction, "NIGHT"))
	assert.Nil(t, day.Location)
}

func TestRun_EventsNeverCarryText(t *testing.T) {
	o, events := newTestOrchestrator(replying(&domain.GenerateReply{Text: "secret reply"}), true)

	o.Run(context.Background(), "secret input", domain.AgentContext{})
	o.Wait()

	require.Len(t, events.Published(), 1)
	ev := events.Published()[0]
	assert.Equal(t, domain.TurnEvent{
		ID:        ev.ID,
		Outcome:   domain.TurnNormalized,
		LatencyMs: ev.LatencyMs,
		Timestamp: ev.Timestamp,
	}, ev)
}

func TestRun_SlowEventBusDoesNotDelayReply(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	events := &mocks.MockEventPublisher{
		PublishTurnFunc: func(ctx context.Context, event domain.TurnEvent) {
			<-release
		},
	}
	o := NewOrchestrator(replying(&domain.GenerateReply{Text: "hi"}), mocks.MockCredentialGate{Configured: true}, events, DefaultConfig(), newTestLogger())

	// Act
	done := make(chan domain.AgentResponse, 1)
	go func() { done <- o.Run(context.Background(), "hello", domain.AgentContext{}) }()

	// Assert
	select {
	case resp := <-done:
		assert.Equal(t, "hi", resp.Text)
	case <-time.After(time.Second):
		t.Fatal("Run waited for the event bus")
	}

	close(release)
	o.Wait()
	assert.Len(t, events.Published(), 1)
}

func TestRun_DropsEventsWhenPublisherIsBehind(t *testing.T) {
	release := make(chan struct{})
	events := &mocks.MockEventPublisher{
		PublishTurnFunc: func(ctx context.Context, event domain.TurnEvent) {
			<-release
		},
	}
	cfg := DefaultConfig()
	cfg.MaxPendingEvents = 1
	o := NewOrchestrator(replying(&domain.GenerateReply{Text: "hi"}), mocks.MockCredentialGate{Configured: true}, events, cfg, newTestLogger())

	o.Run(context.Background(), "one", domain.AgentContext{})
	o.Run(context.Background(), "two", domain.AgentContext{})
	close(release)
	o.Wait()

	assert.Len(t, events.Published(), 1)
}

func TestRun_EventOutlivesCallerContext(t *testing.T) {
	cancelled := make(chan struct{})
	ctxErr := make(chan error, 1)
	events := &mocks.MockEventPublisher{
		PublishTurnFunc: func(ctx context.Context, event domain.TurnEvent) {
			<-cancelled
			ctxErr <- ctx.Err()
		},
	}
	o := NewOrchestrator(replying(&domain.GenerateReply{Text: "hi"}), mocks.MockCredentialGate{Configured: true}, events, DefaultConfig(), newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())

	o.Run(ctx, "hello", domain.AgentContext{})
	cancel()
	close(cancelled)
	o.Wait()

	assert.NoError(t, <-ctxErr)
}

func TestRun_NilGateMeansNoCredential(t *testing.T) {
	o := NewOrchestrator(replying(&domain.GenerateReply{Text: "hi"}), nil, nil, DefaultConfig(), newTestLogger())

	resp := o.Run(context.Background(), "hello", domain.AgentContext{})

	assert.Equal(t, domain.ReplyNoCredential, resp.Text)
}
