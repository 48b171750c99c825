package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/mocks"
)

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body = bytes.NewReader([]byte(p))
		default:
			data, _ := json.Marshal(p)
			body = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, data
}

func TestAgentHandler_Run(t *testing.T) {
	// Arrange
	agent := &mocks.MockAgentService{
		RunFunc: func(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse {
			return domain.AgentResponse{
				Text:     domain.ReplyPictograms,
				Action:   domain.ActionShowPictograms,
				Keywords: []string{"want", "water"},
			}
		},
	}
	vocab := &mocks.MockVocabularyService{
		ResolveFunc: func(ctx context.Context, keywords []string, locale string) []domain.Pictogram {
			return []domain.Pictogram{domain.CoreVocabulary[0]}
		},
	}
	app := fiber.New()
	h := NewAgentHandler(agent, vocab, "en", zap.NewNop())
	app.Post("/agent", h.Run)

	// Act
	resp, body := doJSON(t, app, http.MethodPost, "/agent", map[string]interface{}{
		"input":    "I am thirsty",
		"is_night": true,
		"location": map[string]float64{"lat": -23.5, "lng": -46.6},
	})

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	var reply AgentReply
	if err := json.Unmarshal(body, &reply); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if reply.Response.Action != domain.ActionShowPictograms || len(reply.Response.Keywords) != 2 {
		t.Errorf("Unexpected response: %+v", reply.Response)
	}
	if len(reply.Pictograms) != 1 {
		t.Errorf("Expected 1 resolved pictogram, got %d", len(reply.Pictograms))
	}
	if got := agent.Context[0]; !got.IsNight || got.Location == nil || got.Location.Lat != -23.5 {
		t.Errorf("Context not forwarded: %+v", got)
	}
	if vocab.Locales[0] != "en" {
		t.Errorf("Expected default locale 'en', got '%s'", vocab.Locales[0])
	}
}

func TestAgentHandler_PlainReplySkipsResolution(t *testing.T) {
	agent := &mocks.MockAgentService{}
	vocab := &mocks.MockVocabularyService{}
	app := fiber.New()
	app.Post("/agent", NewAgentHandler(agent, vocab, "en", zap.NewNop()).Run)

	resp, body := doJSON(t, app, http.MethodPost, "/agent", map[string]string{"input": "hello"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(vocab.Locales) != 0 {
		t.Error("Expected no keyword resolution for a plain reply")
	}
	if bytes.Contains(body, []byte(`"pictograms"`)) {
		t.Errorf("Expected no pictograms field, got %s", body)
	}
}

func TestAgentHandler_BlankInputStillGetsReply(t *testing.T) {
	agent := &mocks.MockAgentService{
		RunFunc: func(ctx context.Context, input string, agentCtx domain.AgentContext) domain.AgentResponse {
			return domain.AgentResponse{Text: domain.ReplyNoCredential}
		},
	}
	app := fiber.New()
	app.Post("/agent", NewAgentHandler(agent, nil, "en", zap.NewNop()).Run)

	resp, body := doJSON(t, app, http.MethodPost, "/agent", map[string]string{"input": "   "})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}
	if len(agent.Inputs) != 1 || agent.Inputs[0] != "   " {
		t.Errorf("Expected blank input to reach the agent, got %q", agent.Inputs)
	}
	if !bytes.Contains(body, []byte(domain.ReplyNoCredential)) {
		t.Errorf("Expected no-credential reply, got %s", body)
	}
}

func TestAgentHandler_Validation(t *testing.T) {
	app := fiber.New()
	app.Post("/agent", NewAgentHandler(&mocks.MockAgentService{}, nil, "en", zap.NewNop()).Run)

	tests := []struct {
		name    string
		payload interface{}
	}{
		{name: "invalid json", payload: "{"},
		{name: "bad location", payload: map[string]interface{}{"input": "hi", "location": map[string]float64{"lat": 120, "lng": 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/agent", tt.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSentenceHandler_RefineByIDs(t *testing.T) {
	// Arrange
	svc := &mocks.MockSentenceService{
		RefineFunc: func(ctx context.Context, pictograms []domain.Pictogram) string {
			return "I want water."
		},
	}
	app := fiber.New()
	h := NewSentenceHandler(svc, zap.NewNop())
	app.Post("/refine", h.Refine)

	// Act
	resp, body := doJSON(t, app, http.MethodPost, "/refine", map[string][]int{"pictogram_ids": {2238, 2243, 2311}})

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var result map[string]string
	json.Unmarshal(body, &result)
	if result["sentence"] != "I want water." {
		t.Errorf("Expected 'I want water.', got '%s'", result["sentence"])
	}
	if len(svc.Refined[0]) != 3 || svc.Refined[0][2].Text != "Water" {
		t.Errorf("Unexpected pictograms passed: %+v", svc.Refined[0])
	}
}

func TestSentenceHandler_RefineUnknownID(t *testing.T) {
	svc := &mocks.MockSentenceService{}
	app := fiber.New()
	app.Post("/refine", NewSentenceHandler(svc, zap.NewNop()).Refine)

	resp, _ := doJSON(t, app, http.MethodPost, "/refine", map[string][]int{"pictogram_ids": {1}})

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
	if len(svc.Refined) != 0 {
		t.Error("Expected service not to be called")
	}
}

func TestSentenceHandler_Extract(t *testing.T) {
	svc := &mocks.MockSentenceService{
		ExtractFunc: func(ctx context.Context, text string) []string {
			return []string{"want", "water"}
		},
	}
	app := fiber.New()
	app.Post("/extract", NewSentenceHandler(svc, zap.NewNop()).Extract)

	resp, body := doJSON(t, app, http.MethodPost, "/extract", map[string]string{"text": "I want water"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var result map[string][]string
	json.Unmarshal(body, &result)
	if len(result["keywords"]) != 2 {
		t.Errorf("Expected 2 keywords, got %v", result["keywords"])
	}
}

func TestSpeechHandler_Speak(t *testing.T) {
	// Arrange
	playback := &mocks.MockPlaybackService{
		SpeakOrPlayFunc: func(ctx context.Context, req domain.SpeakRequest) domain.PlaybackOutcome {
			return domain.PlaybackAI
		},
	}
	app := fiber.New()
	app.Post("/speech", NewSpeechHandler(playback, zap.NewNop()).Speak)
	audio := base64.StdEncoding.EncodeToString([]byte{0x00, 0x40})

	// Act
	resp, body := doJSON(t, app, http.MethodPost, "/speech", map[string]string{
		"text":  "Hello",
		"voice": "Puck",
		"audio": audio,
	})

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var result map[string]string
	json.Unmarshal(body, &result)
	if result["outcome"] != "ai" {
		t.Errorf("Expected outcome 'ai', got '%s'", result["outcome"])
	}
	req := playback.Requests[0]
	if req.Text != "Hello" || req.VoiceName != "Puck" || !bytes.Equal(req.Audio, []byte{0x00, 0x40}) {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestSpeechHandler_Validation(t *testing.T) {
	playback := &mocks.MockPlaybackService{}
	app := fiber.New()
	app.Post("/speech", NewSpeechHandler(playback, zap.NewNop()).Speak)

	resp, _ := doJSON(t, app, http.MethodPost, "/speech", map[string]string{"text": "hi", "voice": "Robot"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown voice, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/speech", map[string]string{"text": "hi", "audio": "%%%"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad audio, got %d", resp.StatusCode)
	}

	if len(playback.Requests) != 0 {
		t.Error("Expected playback not to be called")
	}
}

func TestVocabularyHandler(t *testing.T) {
	symbols := &mocks.MockSymbolSearch{
		SearchFunc: func(ctx context.Context, query, locale string) []domain.Symbol {
			if locale != "pt" {
				t.Errorf("Expected locale 'pt', got '%s'", locale)
			}
			return []domain.Symbol{{ID: 9, Keywords: []string{"casa"}}}
		},
		GetByIDFunc: func(ctx context.Context, id int) *domain.Symbol {
			if id == 9 {
				return &domain.Symbol{ID: 9, Keywords: []string{"casa"}}
			}
			return nil
		},
	}
	app := fiber.New()
	h := NewVocabularyHandler(&mocks.MockVocabularyService{}, symbols, "es", zap.NewNop())
	app.Get("/vocabulary", h.List)
	app.Get("/categories", h.Categories)
	app.Get("/symbols/search", h.SearchSymbols)
	app.Get("/symbols/:id", h.GetSymbol)

	t.Run("List", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/vocabulary", nil)
		var list []domain.Pictogram
		json.Unmarshal(body, &list)
		if resp.StatusCode != http.StatusOK || len(list) != len(domain.CoreVocabulary) {
			t.Errorf("Unexpected vocabulary response: %d, %d entries", resp.StatusCode, len(list))
		}
	})

	t.Run("Categories", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodGet, "/categories", nil)
		var cats []domain.Category
		json.Unmarshal(body, &cats)
		if len(cats) != len(domain.Categories) {
			t.Errorf("Expected %d categories, got %d", len(domain.Categories), len(cats))
		}
	})

	t.Run("Search", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/symbols/search?q=casa&locale=pt", nil)
		var hits []domain.Symbol
		json.Unmarshal(body, &hits)
		if resp.StatusCode != http.StatusOK || len(hits) != 1 {
			t.Errorf("Unexpected search response: %d %s", resp.StatusCode, body)
		}
	})

	t.Run("SearchRequiresQuery", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/symbols/search", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("GetSymbol", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/symbols/9", nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
		resp, _ = doJSON(t, app, http.MethodGet, "/symbols/10", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
		resp, _ = doJSON(t, app, http.MethodGet, "/symbols/abc", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})
}
